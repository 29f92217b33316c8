package shift

import "time"

type ShiftDB struct {
	ID              int64
	DriverID        int64
	StartedAt       time.Time
	EndedAt         *time.Time
	IsActive        bool
	EndReason       *string
	DurationMinutes int
	StartLocation   []byte
	EndLocation     []byte
	Breaks          []byte
	Locations       []byte
	Stats           []byte
	Earnings        []byte
	EarningsTotal   float64
	Goals           []byte
	DeliveryIDs     []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
