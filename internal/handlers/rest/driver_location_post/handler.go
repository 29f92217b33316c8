package driver_location_post

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

// ServeHTTP обновляет позицию водителя и трек смены. Если водитель везет
// заказ, точка дописывается и в трек доставки.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	driverID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	var req dto.Point
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	location := *req.ToCoordinates()

	driver, err := h.service.UpdateLocation(r.Context(), driverID, location)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	if driver.CurrentDeliveryID != nil {
		err := h.service.TrackDriverLocation(r.Context(), *driver.CurrentDeliveryID, driverID, location)
		if err != nil {
			// позиция водителя уже сохранена, трек доставки догонит следующей точкой
			h.log.Warn("track delivery location",
				logger.NewField("driver_id", driverID),
				logger.NewField("delivery_id", *driver.CurrentDeliveryID),
				logger.Err(err),
			)
		}
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDriver(driver))
}
