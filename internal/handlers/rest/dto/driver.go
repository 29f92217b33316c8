package dto

import (
	"time"

	"dispatch/internal/entities"
)

type Driver struct {
	ID                int64                 `json:"id"`
	Name              string                `json:"name"`
	Phone             string                `json:"phone"`
	Status            string                `json:"status"`
	ShiftStatus       string                `json:"shift_status"`
	IsAvailable       bool                  `json:"is_available"`
	Location          *entities.Location    `json:"location,omitempty"`
	VehicleType       string                `json:"vehicle_type"`
	RestaurantID      *int64                `json:"restaurant_id,omitempty"`
	AverageRating     *float64              `json:"average_rating,omitempty"`
	CompletionRate    *float64              `json:"completion_rate,omitempty"`
	TotalDeliveries   int64                 `json:"total_deliveries"`
	CurrentDeliveryID *int64                `json:"current_delivery_id,omitempty"`
	CurrentBalance    float64               `json:"current_balance"`
	LifetimeEarnings  float64               `json:"lifetime_earnings"`
	BankAccount       *entities.BankAccount `json:"bank_account,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func FromDriver(d *entities.Driver) Driver {
	return Driver{
		ID:                d.ID,
		Name:              d.Name,
		Phone:             d.Phone,
		Status:            d.Status.String(),
		ShiftStatus:       d.ShiftStatus.String(),
		IsAvailable:       d.IsAvailable,
		Location:          d.Location,
		VehicleType:       d.VehicleType.String(),
		RestaurantID:      d.RestaurantID,
		AverageRating:     d.AverageRating,
		CompletionRate:    d.CompletionRate,
		TotalDeliveries:   d.TotalDeliveries,
		CurrentDeliveryID: d.CurrentDeliveryID,
		CurrentBalance:    d.CurrentBalance,
		LifetimeEarnings:  d.LifetimeEarnings,
		BankAccount:       d.BankAccount,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func FromDrivers(drivers []entities.Driver) []Driver {
	res := make([]Driver, 0, len(drivers))
	for i := range drivers {
		res = append(res, FromDriver(&drivers[i]))
	}
	return res
}

// DriverUpdate частичное обновление, пустые поля не меняются.
type DriverUpdate struct {
	Name         *string               `json:"name" validate:"omitempty,min=1,max=255"`
	Phone        *string               `json:"phone" validate:"omitempty,min=5,max=20"`
	Status       *string               `json:"status" validate:"omitempty,oneof=pending verified suspended"`
	VehicleType  *string               `json:"vehicle_type" validate:"omitempty,oneof=motorcycle scooter car bicycle"`
	RestaurantID *int64                `json:"restaurant_id" validate:"omitempty,gt=0"`
	BankAccount  *entities.BankAccount `json:"bank_account"`
}

func (u DriverUpdate) ToModify(id int64) entities.DriverModify {
	modify := entities.DriverModify{
		ID:           &id,
		Name:         u.Name,
		Phone:        u.Phone,
		RestaurantID: u.RestaurantID,
		BankAccount:  u.BankAccount,
	}
	if u.Status != nil {
		status := entities.DriverStatus(*u.Status)
		modify.Status = &status
	}
	if u.VehicleType != nil {
		vehicle := entities.VehicleType(*u.VehicleType)
		modify.VehicleType = &vehicle
	}
	return modify
}

type Candidate struct {
	Driver     Driver  `json:"driver"`
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes int     `json:"eta_minutes"`
	Score      float64 `json:"score"`
}

func FromCandidates(candidates []entities.DriverCandidate) []Candidate {
	res := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		res = append(res, Candidate{
			Driver:     FromDriver(&candidates[i].Driver),
			DistanceKm: candidates[i].DistanceKm,
			ETAMinutes: candidates[i].ETAMinutes,
			Score:      candidates[i].Score,
		})
	}
	return res
}
