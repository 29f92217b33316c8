package dto

import (
	"time"

	"dispatch/internal/entities"
)

type Shift struct {
	ID              int64                       `json:"id"`
	DriverID        int64                       `json:"driver_id"`
	StartedAt       time.Time                   `json:"started_at"`
	EndedAt         *time.Time                  `json:"ended_at,omitempty"`
	IsActive        bool                        `json:"is_active"`
	EndReason       *string                     `json:"end_reason,omitempty"`
	DurationMinutes int                         `json:"duration_minutes"`
	StartLocation   *entities.Coordinates       `json:"start_location,omitempty"`
	EndLocation     *entities.Coordinates       `json:"end_location,omitempty"`
	Breaks          []entities.Break            `json:"breaks"`
	OnBreak         bool                        `json:"on_break"`
	Stats           entities.ShiftStats         `json:"stats"`
	Earnings        entities.Earnings           `json:"earnings"`
	Goals           *entities.ShiftGoals        `json:"goals,omitempty"`
	DeliveryIDs     []int64                     `json:"delivery_ids"`
	Locations       []entities.LocationSnapshot `json:"locations,omitempty"`
}

func FromShift(s *entities.DriverShift) Shift {
	res := Shift{
		ID:              s.ID,
		DriverID:        s.DriverID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		IsActive:        s.IsActive,
		DurationMinutes: s.DurationMinutes,
		StartLocation:   s.StartLocation,
		EndLocation:     s.EndLocation,
		Breaks:          s.Breaks,
		OnBreak:         s.OnBreak(),
		Stats:           s.Stats,
		Earnings:        s.Earnings,
		Goals:           s.Goals,
		DeliveryIDs:     s.DeliveryIDs,
		Locations:       s.Locations,
	}
	if s.EndReason != nil {
		reason := s.EndReason.String()
		res.EndReason = &reason
	}
	return res
}

type ShiftStart struct {
	Location *Point               `json:"location"`
	Goals    *entities.ShiftGoals `json:"goals"`
}

type ShiftEnd struct {
	Reason   string `json:"reason" validate:"omitempty,oneof=manual auto_timeout system admin"`
	Location *Point `json:"location"`
}

type BreakStart struct {
	Reason string `json:"reason" validate:"max=255"`
}

// Point координаты в запросе. Поля обязательны, если точка передана.
type Point struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// ToCoordinates nil для отсутствующей точки.
func (p *Point) ToCoordinates() *entities.Coordinates {
	if p == nil {
		return nil
	}
	return &entities.Coordinates{Lat: *p.Lat, Lng: *p.Lng}
}
