package drivers_available_get

import (
	"fmt"
	"net/http"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
)

// defaultRadiusKm радиус поиска, если radius_km не передан.
const defaultRadiusKm = 10.0

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
	lat, err := httpx.QueryFloat64(r, "lat")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	lng, err := httpx.QueryFloat64(r, "lng")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	if lat == nil || lng == nil {
		httpx.WriteError(w, h.log, fmt.Errorf("%w: lat and lng are required", httpx.ErrInvalidQuery))
		return
	}

	radius, err := httpx.QueryFloat64(r, "radius_km")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	radiusKm := defaultRadiusKm
	if radius != nil {
		radiusKm = *radius
	}

	restaurantID, err := httpx.QueryInt64(r, "restaurant_id")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	candidates, err := h.service.FindAvailableDrivers(
		r.Context(),
		entities.Coordinates{Lat: *lat, Lng: *lng},
		radiusKm,
		restaurantID,
		nil,
	)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromCandidates(candidates))
}
