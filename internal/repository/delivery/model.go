package delivery

import "time"

type DeliveryDB struct {
	ID                   int64
	DeliveryNumber       string
	OrderID              int64
	RestaurantID         int64
	DriverID             *int64
	Status               string
	PreviousStatus       *string
	StatusHistory        []byte
	AssignmentAttempts   int
	AssignedAt           *time.Time
	AcceptedAt           *time.Time
	AssignmentExpiresAt  *time.Time
	RejectedDriverIDs    []int64
	Priority             bool
	LastRejectReason     string
	Pickup               []byte
	Dropoff              []byte
	EstimatedDistanceKm  float64
	EstimatedDurationMin int
	ActualDistanceKm     float64
	ActualDurationMin    int
	ActualPickupTime     *time.Time
	ActualDeliveryTime   *time.Time
	CancelledAt          *time.Time
	DriverLocation       []byte
	LocationHistory      []byte
	Proof                []byte
	OTPCode              string
	Chat                 []byte
	EarningsDB
	Issues       []byte
	Rating       []byte
	Cancellation []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type EarningsDB struct {
	DeliveryFee    float64
	DistanceBonus  float64
	WaitTimeBonus  float64
	PeakHourBonus  float64
	Tip            float64
	IncentiveBonus float64
	Total          float64
}

type DeliveryEarningsRowDB struct {
	DeliveryID     int64
	DeliveryNumber string
	DriverID       int64
	DeliveredAt    time.Time
	EarningsDB
}

type LeaderboardRowDB struct {
	DriverID      int64
	DriverName    string
	Deliveries    int
	TotalEarnings float64
}
