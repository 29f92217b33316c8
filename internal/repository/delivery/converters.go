package delivery

import (
	"encoding/json"
	"fmt"

	"dispatch/internal/entities"
)

type jsonField struct {
	name string
	raw  *[]byte
	val  any
}

func jsonFields(d *DeliveryDB, e *entities.Delivery) []jsonField {
	return []jsonField{
		{"status_history", &d.StatusHistory, &e.StatusHistory},
		{"pickup", &d.Pickup, &e.Pickup},
		{"dropoff", &d.Dropoff, &e.Dropoff},
		{"driver_location", &d.DriverLocation, &e.DriverLocation},
		{"location_history", &d.LocationHistory, &e.LocationHistory},
		{"proof", &d.Proof, &e.Proof},
		{"chat", &d.Chat, &e.Chat},
		{"issues", &d.Issues, &e.Issues},
		{"rating", &d.Rating, &e.Rating},
		{"cancellation", &d.Cancellation, &e.Cancellation},
	}
}

func ToDomain(d *DeliveryDB) (*entities.Delivery, error) {
	if d == nil {
		return nil, nil
	}

	delivery := &entities.Delivery{
		ID:             d.ID,
		DeliveryNumber: d.DeliveryNumber,
		OrderID:        d.OrderID,
		RestaurantID:   d.RestaurantID,
		DriverID:       d.DriverID,
		Status:         entities.DeliveryStatus(d.Status),
		Assignment: entities.AssignmentInfo{
			Attempts:          d.AssignmentAttempts,
			AssignedAt:        d.AssignedAt,
			AcceptedAt:        d.AcceptedAt,
			ExpiresAt:         d.AssignmentExpiresAt,
			RejectedDriverIDs: d.RejectedDriverIDs,
			Priority:          d.Priority,
			LastRejectReason:  d.LastRejectReason,
		},
		EstimatedDistanceKm:  d.EstimatedDistanceKm,
		EstimatedDurationMin: d.EstimatedDurationMin,
		ActualDistanceKm:     d.ActualDistanceKm,
		ActualDurationMin:    d.ActualDurationMin,
		ActualPickupTime:     d.ActualPickupTime,
		ActualDeliveryTime:   d.ActualDeliveryTime,
		CancelledAt:          d.CancelledAt,
		OTPCode:              d.OTPCode,
		Earnings:             earningsToDomain(d.EarningsDB),
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.PreviousStatus != nil {
		prev := entities.DeliveryStatus(*d.PreviousStatus)
		delivery.PreviousStatus = &prev
	}
	if delivery.Assignment.RejectedDriverIDs == nil {
		delivery.Assignment.RejectedDriverIDs = []int64{}
	}

	for _, f := range jsonFields(d, delivery) {
		if len(*f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(*f.raw, f.val); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}

	return delivery, nil
}

func FromDomain(e *entities.Delivery) (*DeliveryDB, error) {
	if e == nil {
		return nil, nil
	}

	d := &DeliveryDB{
		ID:                   e.ID,
		DeliveryNumber:       e.DeliveryNumber,
		OrderID:              e.OrderID,
		RestaurantID:         e.RestaurantID,
		DriverID:             e.DriverID,
		Status:               e.Status.String(),
		AssignmentAttempts:   e.Assignment.Attempts,
		AssignedAt:           e.Assignment.AssignedAt,
		AcceptedAt:           e.Assignment.AcceptedAt,
		AssignmentExpiresAt:  e.Assignment.ExpiresAt,
		RejectedDriverIDs:    e.Assignment.RejectedDriverIDs,
		Priority:             e.Assignment.Priority,
		LastRejectReason:     e.Assignment.LastRejectReason,
		EstimatedDistanceKm:  e.EstimatedDistanceKm,
		EstimatedDurationMin: e.EstimatedDurationMin,
		ActualDistanceKm:     e.ActualDistanceKm,
		ActualDurationMin:    e.ActualDurationMin,
		ActualPickupTime:     e.ActualPickupTime,
		ActualDeliveryTime:   e.ActualDeliveryTime,
		CancelledAt:          e.CancelledAt,
		OTPCode:              e.OTPCode,
		EarningsDB:           earningsFromDomain(e.Earnings),
	}
	if e.PreviousStatus != nil {
		prev := e.PreviousStatus.String()
		d.PreviousStatus = &prev
	}
	if d.RejectedDriverIDs == nil {
		d.RejectedDriverIDs = []int64{}
	}

	for _, f := range jsonFields(d, e) {
		raw, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
		*f.raw = raw
	}

	// NOT NULL списки пишем как [], необязательные объекты как SQL NULL
	for _, list := range []*[]byte{&d.StatusHistory, &d.LocationHistory, &d.Chat, &d.Issues} {
		if string(*list) == "null" {
			*list = []byte("[]")
		}
	}
	for _, obj := range []*[]byte{&d.DriverLocation, &d.Proof, &d.Rating, &d.Cancellation} {
		if string(*obj) == "null" {
			*obj = nil
		}
	}

	return d, nil
}

func ToDomainList(deliveriesDB []DeliveryDB) ([]entities.Delivery, error) {
	if len(deliveriesDB) == 0 {
		return []entities.Delivery{}, nil
	}

	result := make([]entities.Delivery, len(deliveriesDB))
	for i := range deliveriesDB {
		delivery, err := ToDomain(&deliveriesDB[i])
		if err != nil {
			return nil, err
		}
		result[i] = *delivery
	}
	return result, nil
}

func EarningsRowsToDomain(rows []DeliveryEarningsRowDB) []entities.DeliveryEarningsRow {
	result := make([]entities.DeliveryEarningsRow, len(rows))
	for i, row := range rows {
		result[i] = entities.DeliveryEarningsRow{
			DeliveryID:     row.DeliveryID,
			DeliveryNumber: row.DeliveryNumber,
			DriverID:       row.DriverID,
			DeliveredAt:    row.DeliveredAt,
			Earnings:       earningsToDomain(row.EarningsDB),
		}
	}
	return result
}

func earningsToDomain(e EarningsDB) entities.Earnings {
	return entities.Earnings{
		DeliveryFee:    e.DeliveryFee,
		DistanceBonus:  e.DistanceBonus,
		WaitTimeBonus:  e.WaitTimeBonus,
		PeakHourBonus:  e.PeakHourBonus,
		Tip:            e.Tip,
		IncentiveBonus: e.IncentiveBonus,
		Total:          e.Total,
	}
}

func earningsFromDomain(e entities.Earnings) EarningsDB {
	return EarningsDB{
		DeliveryFee:    e.DeliveryFee,
		DistanceBonus:  e.DistanceBonus,
		WaitTimeBonus:  e.WaitTimeBonus,
		PeakHourBonus:  e.PeakHourBonus,
		Tip:            e.Tip,
		IncentiveBonus: e.IncentiveBonus,
		Total:          e.Total,
	}
}
