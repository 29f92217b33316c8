package earnings_leaderboard_get

import (
	"fmt"
	"net/http"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"

	"github.com/AlekSi/pointer"
)

const (
	defaultLimit = 10
	maxLimit     = 100
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
	period := entities.EarningsPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = entities.PeriodWeek
	}

	limit, err := httpx.QueryInt64(r, "limit")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if limit == nil {
		limit = pointer.ToInt64(defaultLimit)
	}
	if *limit == 0 || *limit > maxLimit {
		httpx.WriteError(w, h.log, fmt.Errorf("%w: limit must be in [1, %d]", httpx.ErrInvalidQuery, maxLimit))
		return
	}

	entries, err := h.service.GetEarningsLeaderboard(r.Context(), period, uint64(*limit))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromLeaderboard(entries))
}
