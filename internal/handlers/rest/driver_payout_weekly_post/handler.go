package driver_payout_weekly_post

import (
	"net/http"

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
	driverID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	payout, err := h.service.CreateWeeklyPayout(r.Context(), driverID)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	// выплата за окно уже есть либо нечего выплачивать
	if payout == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusCreated, dto.FromPayout(payout))
}
