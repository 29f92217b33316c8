package entities

import "time"

type Driver struct {
	ID                int64
	Name              string
	Phone             string
	Status            DriverStatus
	ShiftStatus       ShiftStatus
	IsAvailable       bool
	Location          *Location
	VehicleType       VehicleType
	RestaurantID      *int64 // nil - водитель работает со всеми ресторанами
	AverageRating     *float64
	CompletionRate    *float64
	TotalDeliveries   int64
	CurrentDeliveryID *int64
	CurrentBalance    float64
	LifetimeEarnings  float64
	BankAccount       *BankAccount
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanTakeDelivery водитель может получить новую доставку прямо сейчас.
func (d *Driver) CanTakeDelivery() bool {
	return d.Status == DriverVerified &&
		d.ShiftStatus == ShiftOnline &&
		d.IsAvailable &&
		d.CurrentDeliveryID == nil
}

type DriverStatus string

const (
	DriverPending   DriverStatus = "pending"
	DriverVerified  DriverStatus = "verified"
	DriverSuspended DriverStatus = "suspended"
)

func (s DriverStatus) String() string {
	return string(s)
}

type ShiftStatus string

const (
	ShiftOffline    ShiftStatus = "offline"
	ShiftOnline     ShiftStatus = "online"
	ShiftOnBreak    ShiftStatus = "on_break"
	ShiftOnDelivery ShiftStatus = "on_delivery"
)

func (s ShiftStatus) String() string {
	return string(s)
}

type VehicleType string

const (
	Motorcycle VehicleType = "motorcycle"
	Scooter    VehicleType = "scooter"
	Car        VehicleType = "car"
	Bicycle    VehicleType = "bicycle"
)

func (t VehicleType) String() string {
	return string(t)
}

type BankAccount struct {
	HolderName    string `json:"holder_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

type DriverModify struct {
	ID           *int64
	Name         *string
	Phone        *string
	Status       *DriverStatus
	ShiftStatus  *ShiftStatus
	IsAvailable  *bool
	Location     *Location
	VehicleType  *VehicleType
	RestaurantID *int64
	BankAccount  *BankAccount
}

type DriverFilter struct {
	Status       *DriverStatus
	ShiftStatus  *ShiftStatus
	RestaurantID *int64
	Limit        uint64
	Offset       uint64
}

// AvailableDriversQuery выборка кандидатов на доставку вокруг точки.
type AvailableDriversQuery struct {
	Center       Coordinates
	RadiusKm     float64
	RestaurantID *int64
	ExcludeIDs   []int64
}

// DriverCandidate водитель, прошедший фильтр, с дистанцией и оценкой.
type DriverCandidate struct {
	Driver     Driver
	DistanceKm float64
	ETAMinutes int
	Score      float64
}
