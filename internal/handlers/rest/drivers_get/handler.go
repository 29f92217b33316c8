package drivers_get

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
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	drivers, err := h.service.GetDrivers(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDrivers(drivers))
}

func parseFilter(r *http.Request) (entities.DriverFilter, error) {
	var filter entities.DriverFilter

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		s := entities.DriverStatus(status)
		filter.Status = &s
	}
	if shiftStatus := query.Get("shift_status"); shiftStatus != "" {
		s := entities.ShiftStatus(shiftStatus)
		filter.ShiftStatus = &s
	}

	restaurantID, err := httpx.QueryInt64(r, "restaurant_id")
	if err != nil {
		return filter, err
	}
	filter.RestaurantID = restaurantID

	limit, err := httpx.QueryInt64(r, "limit")
	if err != nil {
		return filter, err
	}
	if limit != nil {
		filter.Limit = uint64(*limit)
	}

	offset, err := httpx.QueryInt64(r, "offset")
	if err != nil {
		return filter, err
	}
	if offset != nil {
		filter.Offset = uint64(*offset)
	}

	return filter, nil
}
