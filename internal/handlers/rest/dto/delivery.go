package dto

import (
	"time"

	"dispatch/internal/entities"
)

// Delivery представление доставки. Код OTP наружу не отдается.
type Delivery struct {
	ID                   int64                       `json:"id"`
	DeliveryNumber       string                      `json:"delivery_number"`
	OrderID              int64                       `json:"order_id"`
	RestaurantID         int64                       `json:"restaurant_id"`
	DriverID             *int64                      `json:"driver_id,omitempty"`
	Status               string                      `json:"status"`
	StatusHistory        []entities.StatusEvent      `json:"status_history"`
	Assignment           entities.AssignmentInfo     `json:"assignment"`
	Pickup               entities.Address            `json:"pickup"`
	Dropoff              entities.Address            `json:"dropoff"`
	EstimatedDistanceKm  float64                     `json:"estimated_distance_km"`
	EstimatedDurationMin int                         `json:"estimated_duration_min"`
	ActualDistanceKm     float64                     `json:"actual_distance_km"`
	ActualDurationMin    int                         `json:"actual_duration_min"`
	ActualPickupTime     *time.Time                  `json:"actual_pickup_time,omitempty"`
	ActualDeliveryTime   *time.Time                  `json:"actual_delivery_time,omitempty"`
	DriverLocation       *entities.Location          `json:"driver_location,omitempty"`
	Proof                *entities.ProofOfDelivery   `json:"proof,omitempty"`
	Chat                 []entities.ChatMessage      `json:"chat"`
	Earnings             entities.Earnings           `json:"earnings"`
	Issues               []entities.DeliveryIssue    `json:"issues"`
	Rating               *entities.DeliveryRating    `json:"rating,omitempty"`
	Cancellation         *entities.Cancellation      `json:"cancellation,omitempty"`
	LocationHistory      []entities.LocationSnapshot `json:"location_history,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

func FromDelivery(d *entities.Delivery) Delivery {
	return Delivery{
		ID:                   d.ID,
		DeliveryNumber:       d.DeliveryNumber,
		OrderID:              d.OrderID,
		RestaurantID:         d.RestaurantID,
		DriverID:             d.DriverID,
		Status:               d.Status.String(),
		StatusHistory:        d.StatusHistory,
		Assignment:           d.Assignment,
		Pickup:               d.Pickup,
		Dropoff:              d.Dropoff,
		EstimatedDistanceKm:  d.EstimatedDistanceKm,
		EstimatedDurationMin: d.EstimatedDurationMin,
		ActualDistanceKm:     d.ActualDistanceKm,
		ActualDurationMin:    d.ActualDurationMin,
		ActualPickupTime:     d.ActualPickupTime,
		ActualDeliveryTime:   d.ActualDeliveryTime,
		DriverLocation:       d.DriverLocation,
		Proof:                d.Proof,
		Chat:                 d.Chat,
		Earnings:             d.Earnings,
		Issues:               d.Issues,
		Rating:               d.Rating,
		Cancellation:         d.Cancellation,
		LocationHistory:      d.LocationHistory,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type DeliveryCreate struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
}

// DeliveryAssign без driver_id запускает автоподбор.
type DeliveryAssign struct {
	DriverID *int64 `json:"driver_id" validate:"omitempty,gt=0"`
}

type DriverAction struct {
	DriverID int64 `json:"driver_id" validate:"required,gt=0"`
}

type DeliveryReject struct {
	DriverID int64  `json:"driver_id" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

type StatusUpdate struct {
	DriverID int64  `json:"driver_id" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=arriving_restaurant at_restaurant picked_up in_transit arrived"`
	Location *Point `json:"location"`
	Note     string `json:"note" validate:"max=500"`
}

type Proof struct {
	Type          string `json:"type" validate:"required,oneof=photo signature otp contactless"`
	PhotoURL      string `json:"photo_url" validate:"max=2048"`
	SignatureURL  string `json:"signature_url" validate:"max=2048"`
	RecipientName string `json:"recipient_name" validate:"max=255"`
	Notes         string `json:"notes" validate:"max=500"`
	Location      *Point `json:"location"`
}

func (p Proof) ToEntity() entities.ProofOfDelivery {
	return entities.ProofOfDelivery{
		Type:          entities.ProofType(p.Type),
		PhotoURL:      p.PhotoURL,
		SignatureURL:  p.SignatureURL,
		RecipientName: p.RecipientName,
		Notes:         p.Notes,
		Location:      p.Location.ToCoordinates(),
	}
}

type DeliveryComplete struct {
	DriverID int64  `json:"driver_id" validate:"required,gt=0"`
	Proof    Proof  `json:"proof"`
	OTPCode  string `json:"otp_code" validate:"omitempty,len=4,numeric"`
}

type DeliveryCancel struct {
	Reason      string `json:"reason" validate:"required,max=500"`
	CancelledBy string `json:"cancelled_by" validate:"required,oneof=customer restaurant driver admin system"`
}

type DeliveryFail struct {
	DriverID int64  `json:"driver_id" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"required,max=500"`
}

type DeliveryReturn struct {
	DriverID int64  `json:"driver_id" validate:"required,gt=0"`
	Note     string `json:"note" validate:"max=500"`
}

type ChatMessageCreate struct {
	Sender   string `json:"sender" validate:"required,oneof=driver customer restaurant system"`
	SenderID *int64 `json:"sender_id" validate:"omitempty,gt=0"`
	Message  string `json:"message" validate:"required,max=2000"`
}

type IssueCreate struct {
	Type        string `json:"type" validate:"required,oneof=restaurant_delay customer_unreachable wrong_address damaged_items vehicle_problem other"`
	Description string `json:"description" validate:"required,max=2000"`
	ReportedBy  string `json:"reported_by" validate:"required,max=255"`
}

type RatingCreate struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type OTPVerify struct {
	Code string `json:"code" validate:"required,len=4,numeric"`
}

type OTPResponse struct {
	Code string `json:"code,omitempty"`
	// Valid выставляется только при проверке кода.
	Valid *bool `json:"valid,omitempty"`
}

type TipCreate struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type AssignmentStats struct {
	TotalDeliveries      int                 `json:"total_deliveries"`
	DeliveredCount       int                 `json:"delivered_count"`
	AvgAssignmentMinutes float64             `json:"avg_assignment_minutes"`
	AvgDeliveryMinutes   float64             `json:"avg_delivery_minutes"`
	SuccessRate          float64             `json:"success_rate"`
	TopDrivers           []DriverPerformance `json:"top_drivers"`
}

type DriverPerformance struct {
	DriverID            int64   `json:"driver_id"`
	DriverName          string  `json:"driver_name"`
	CompletedDeliveries int     `json:"completed_deliveries"`
	TotalEarnings       float64 `json:"total_earnings"`
}

func FromAssignmentStats(s *entities.AssignmentStats) AssignmentStats {
	res := AssignmentStats{
		TotalDeliveries:      s.TotalDeliveries,
		DeliveredCount:       s.DeliveredCount,
		AvgAssignmentMinutes: s.AvgAssignmentMinutes,
		AvgDeliveryMinutes:   s.AvgDeliveryMinutes,
		SuccessRate:          s.SuccessRate,
		TopDrivers:           make([]DriverPerformance, 0, len(s.TopDrivers)),
	}
	for _, d := range s.TopDrivers {
		res.TopDrivers = append(res.TopDrivers, DriverPerformance(d))
	}
	return res
}
