package dto

import (
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/httpx"
)

// defaultPayoutWindow окно выборки выплат, если from не задан.
const defaultPayoutWindow = 30 * 24 * time.Hour

// ParsePayoutFilter читает driver_id, status, from и to из строки запроса.
func ParsePayoutFilter(r *http.Request, now time.Time) (entities.PayoutFilter, error) {
	var filter entities.PayoutFilter

	driverID, err := httpx.QueryInt64(r, "driver_id")
	if err != nil {
		return filter, err
	}
	filter.DriverID = driverID

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := entities.PayoutStatus(raw)
		switch status {
		case entities.PayoutPending, entities.PayoutProcessing, entities.PayoutCompleted,
			entities.PayoutFailed, entities.PayoutCancelled:
			filter.Status = &status
		default:
			return filter, fmt.Errorf("%w: status=%q", httpx.ErrInvalidQuery, raw)
		}
	}

	to, err := httpx.QueryTime(r, "to")
	if err != nil {
		return filter, err
	}
	filter.To = now
	if to != nil {
		filter.To = *to
	}

	from, err := httpx.QueryTime(r, "from")
	if err != nil {
		return filter, err
	}
	filter.From = filter.To.Add(-defaultPayoutWindow)
	if from != nil {
		filter.From = *from
	}

	return filter, nil
}
