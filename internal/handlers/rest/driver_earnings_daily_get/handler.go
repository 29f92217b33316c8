package driver_earnings_daily_get

import (
	"net/http"
	"time"

	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"

	"github.com/AlekSi/pointer"
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

	day, err := httpx.QueryTime(r, "date")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if day == nil {
		day = pointer.To(time.Now())
	}

	daily, err := h.service.GetDailyEarnings(r.Context(), driverID, *day)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDailyEarnings(daily))
}
