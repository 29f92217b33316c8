package earnings_calculate_post

import (
	"net/http"
	"time"

	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
	"dispatch/internal/service/earnings"
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
	var req dto.EarningsCalculate
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	result, err := h.service.CalculateDeliveryEarnings(earnings.CalculationInput{
		BaseFee:         req.BaseFee,
		DistanceKm:      req.DistanceKm,
		WaitTimeMinutes: req.WaitTimeMinutes,
		Tip:             req.Tip,
		At:              at,
	})
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, result)
}
