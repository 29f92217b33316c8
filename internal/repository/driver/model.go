package driver

import "time"

type DriverDB struct {
	ID                int64
	Name              string
	Phone             string
	Status            string
	ShiftStatus       string
	IsAvailable       bool
	LocationLat       *float64
	LocationLng       *float64
	LocationUpdatedAt *time.Time
	VehicleType       string
	RestaurantID      *int64
	AverageRating     *float64
	CompletionRate    *float64
	TotalDeliveries   int64
	CurrentDeliveryID *int64
	CurrentBalance    float64
	LifetimeEarnings  float64
	BankAccount       []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type DriverModifyDB struct {
	ID                *int64
	Name              *string
	Phone             *string
	Status            *string
	ShiftStatus       *string
	IsAvailable       *bool
	LocationLat       *float64
	LocationLng       *float64
	LocationUpdatedAt *time.Time
	VehicleType       *string
	RestaurantID      *int64
	BankAccount       []byte
}
