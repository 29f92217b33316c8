package assignment_stats_get

import (
	"net/http"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		filter entities.AssignmentStatsFilter
		err    error
	)

	if filter.RestaurantID, err = httpx.QueryInt64(r, "restaurant_id"); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if filter.From, err = httpx.QueryTime(r, "from"); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if filter.To, err = httpx.QueryTime(r, "to"); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	stats, err := h.service.GetAssignmentStats(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromAssignmentStats(stats))
}
