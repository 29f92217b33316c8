package payouts_weekly_post

import (
	"net/http"

	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
	"dispatch/pkg/logger"
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
	result, err := h.service.CreateWeeklyPayouts(r.Context())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if result.Failed > 0 {
		h.log.Warn("weekly payouts partially failed",
			logger.NewField("failed", result.Failed),
			logger.NewField("created", result.Created),
		)
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromBatchResult(result))
}
