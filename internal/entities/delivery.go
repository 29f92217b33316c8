package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dispatch/pkg/geo"
)

const (
	MaxDeliveryLocations  = 1000
	KeepDeliveryLocations = 500

	otpMin   = 1000
	otpRange = 9000
)

type Delivery struct {
	ID             int64
	DeliveryNumber string
	OrderID        int64
	RestaurantID   int64
	DriverID       *int64
	Status         DeliveryStatus
	PreviousStatus *DeliveryStatus
	StatusHistory  []StatusEvent
	Assignment     AssignmentInfo

	Pickup  Address
	Dropoff Address

	EstimatedDistanceKm  float64
	EstimatedDurationMin int
	ActualDistanceKm     float64
	ActualDurationMin    int

	ActualPickupTime   *time.Time
	ActualDeliveryTime *time.Time
	CancelledAt        *time.Time

	DriverLocation  *Location
	LocationHistory []LocationSnapshot

	Proof        *ProofOfDelivery
	OTPCode      string
	Chat         []ChatMessage
	Earnings     Earnings
	Issues       []DeliveryIssue
	Rating       *DeliveryRating
	Cancellation *Cancellation

	CreatedAt time.Time
	UpdatedAt time.Time
}

type StatusEvent struct {
	Status   DeliveryStatus `json:"status"`
	At       time.Time      `json:"at"`
	Location *Coordinates   `json:"location,omitempty"`
	Note     string         `json:"note,omitempty"`
}

type AssignmentInfo struct {
	Attempts          int        `json:"attempts"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	RejectedDriverIDs []int64    `json:"rejected_driver_ids"`
	Priority          bool       `json:"priority"`
	LastRejectReason  string     `json:"last_reject_reason,omitempty"`
}

type ProofType string

const (
	ProofPhoto       ProofType = "photo"
	ProofSignature   ProofType = "signature"
	ProofOTP         ProofType = "otp"
	ProofContactless ProofType = "contactless"
)

func (t ProofType) String() string {
	return string(t)
}

type ProofOfDelivery struct {
	Type          ProofType    `json:"type"`
	PhotoURL      string       `json:"photo_url,omitempty"`
	SignatureURL  string       `json:"signature_url,omitempty"`
	RecipientName string       `json:"recipient_name,omitempty"`
	OTPVerified   bool         `json:"otp_verified"`
	Notes         string       `json:"notes,omitempty"`
	CollectedAt   time.Time    `json:"collected_at"`
	Location      *Coordinates `json:"location,omitempty"`
}

type ChatSender string

const (
	ChatSenderDriver     ChatSender = "driver"
	ChatSenderCustomer   ChatSender = "customer"
	ChatSenderRestaurant ChatSender = "restaurant"
	ChatSenderSystem     ChatSender = "system"
)

type ChatMessage struct {
	Sender   ChatSender `json:"sender"`
	SenderID *int64     `json:"sender_id,omitempty"`
	Message  string     `json:"message"`
	SentAt   time.Time  `json:"sent_at"`
}

type IssueType string

const (
	IssueRestaurantDelay  IssueType = "restaurant_delay"
	IssueCustomerNotFound IssueType = "customer_unreachable"
	IssueWrongAddress     IssueType = "wrong_address"
	IssueDamagedItems     IssueType = "damaged_items"
	IssueVehicleProblem   IssueType = "vehicle_problem"
	IssueOther            IssueType = "other"
)

type DeliveryIssue struct {
	Type        IssueType  `json:"type"`
	Description string     `json:"description"`
	ReportedBy  string     `json:"reported_by"`
	ReportedAt  time.Time  `json:"reported_at"`
	Resolved    bool       `json:"resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

type DeliveryRating struct {
	DriverRating int       `json:"driver_rating"`
	Comment      string    `json:"comment,omitempty"`
	RatedAt      time.Time `json:"rated_at"`
}

type Cancellation struct {
	Reason      string    `json:"reason"`
	CancelledBy string    `json:"cancelled_by"`
	At          time.Time `json:"at"`
}

// NewDelivery новая доставка в статусе pending. Адрес клиента без
// координат заменяется точкой забора.
func NewDelivery(order *Order, pickup Address, number string, baseFee float64, now time.Time) *Delivery {
	dropoff := pickup
	if order.DeliveryAddress != nil {
		dropoff = *order.DeliveryAddress
	}
	if order.DeliveryInstructions != "" {
		dropoff.Instructions = order.DeliveryInstructions
	}

	d := &Delivery{
		DeliveryNumber: number,
		OrderID:        order.ID,
		RestaurantID:   order.RestaurantID,
		Status:         DeliveryPending,
		StatusHistory: []StatusEvent{
			{Status: DeliveryPending, At: now},
		},
		Assignment: AssignmentInfo{
			RejectedDriverIDs: []int64{},
		},
		Pickup:          pickup,
		Dropoff:         dropoff,
		LocationHistory: []LocationSnapshot{},
		Chat:            []ChatMessage{},
		Issues:          []DeliveryIssue{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	d.Earnings.DeliveryFee = baseFee
	d.Earnings.Recalculate()
	return d
}

// UpdateStatus переводит доставку по таблице переходов, пишет историю
// и проставляет временные метки конкретного статуса.
func (d *Delivery) UpdateStatus(next DeliveryStatus, now time.Time, location *Coordinates, note string) error {
	if _, err := Transition(d.Status, next); err != nil {
		return err
	}

	prev := d.Status
	d.PreviousStatus = &prev
	d.Status = next
	d.StatusHistory = append(d.StatusHistory, StatusEvent{
		Status:   next,
		At:       now,
		Location: location,
		Note:     note,
	})

	switch next {
	case DeliveryAssigned:
		d.Assignment.AssignedAt = &now
	case DeliveryAccepted:
		d.Assignment.AcceptedAt = &now
		d.Assignment.ExpiresAt = nil
	case DeliveryPickedUp:
		d.ActualPickupTime = &now
	case DeliveryDelivered:
		d.ActualDeliveryTime = &now
		if d.ActualPickupTime != nil {
			d.ActualDurationMin = int(math.Round(now.Sub(*d.ActualPickupTime).Minutes()))
			d.ActualDistanceKm = d.trailDistanceKm(*d.ActualPickupTime)
		}
	case DeliveryCancelled:
		d.CancelledAt = &now
	case DeliveryPending:
		d.DriverID = nil
		d.Assignment.AssignedAt = nil
		d.Assignment.ExpiresAt = nil
	}
	return nil
}

// Assign закрепляет доставку за водителем.
func (d *Delivery) Assign(driverID int64, now time.Time, expiresAt *time.Time) error {
	if err := d.UpdateStatus(DeliveryAssigned, now, nil, ""); err != nil {
		return err
	}
	d.DriverID = &driverID
	d.Assignment.Attempts++
	d.Assignment.ExpiresAt = expiresAt
	return nil
}

// Reject возвращает доставку в пул. Водитель запоминается и больше
// не предлагается для этой доставки.
func (d *Delivery) Reject(driverID int64, now time.Time, reason string) error {
	if err := d.UpdateStatus(DeliveryPending, now, nil, reason); err != nil {
		return err
	}
	if !d.WasRejectedBy(driverID) {
		d.Assignment.RejectedDriverIDs = append(d.Assignment.RejectedDriverIDs, driverID)
	}
	d.Assignment.LastRejectReason = reason
	return nil
}

func (d *Delivery) WasRejectedBy(driverID int64) bool {
	for _, id := range d.Assignment.RejectedDriverIDs {
		if id == driverID {
			return true
		}
	}
	return false
}

func (d *Delivery) IsAssignedTo(driverID int64) bool {
	return d.DriverID != nil && *d.DriverID == driverID
}

// UpdateDriverLocation история ограничена: при переполнении остается хвост.
func (d *Delivery) UpdateDriverLocation(lat, lng float64, now time.Time) {
	d.DriverLocation = &Location{Lat: lat, Lng: lng, UpdatedAt: now}
	d.LocationHistory = append(d.LocationHistory, LocationSnapshot{Lat: lat, Lng: lng, RecordedAt: now})
	d.LocationHistory = truncateTail(d.LocationHistory, MaxDeliveryLocations, KeepDeliveryLocations)
}

// trailDistanceKm длина трека водителя начиная с since. Меньше двух точек дает 0.
func (d *Delivery) trailDistanceKm(since time.Time) float64 {
	var (
		total float64
		prev  *LocationSnapshot
	)
	for i := range d.LocationHistory {
		cur := &d.LocationHistory[i]
		if cur.RecordedAt.Before(since) {
			continue
		}
		if prev != nil {
			total += geo.Distance(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
		}
		prev = cur
	}
	return math.Round(total*100) / 100
}

func (d *Delivery) AddChatMessage(sender ChatSender, senderID *int64, message string, now time.Time) (*ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	msg := ChatMessage{
		Sender:   sender,
		SenderID: senderID,
		Message:  message,
		SentAt:   now,
	}
	d.Chat = append(d.Chat, msg)
	return &msg, nil
}

func (d *Delivery) ReportIssue(issueType IssueType, description, reportedBy string, now time.Time) DeliveryIssue {
	issue := DeliveryIssue{
		Type:        issueType,
		Description: description,
		ReportedBy:  reportedBy,
		ReportedAt:  now,
	}
	d.Issues = append(d.Issues, issue)
	return issue
}

// CalculateEarnings пересчитывает заработок по фактической дистанции трека
// после забора заказа. Без трека берется оценочная. Чаевые и бонусы сохраняются.
func (d *Delivery) CalculateEarnings(baseFee, distanceRate, peakMultiplier, waitTimeMinutes float64) Earnings {
	distance := d.ActualDistanceKm
	if distance <= 0 {
		distance = d.EstimatedDistanceKm
	}
	d.Earnings = CalculateEarnings(EarningsInput{
		BaseFee:         baseFee,
		DistanceKm:      distance,
		DistanceRate:    distanceRate,
		WaitTimeMinutes: waitTimeMinutes,
		PeakMultiplier:  peakMultiplier,
		Tip:             d.Earnings.Tip,
		IncentiveBonus:  d.Earnings.IncentiveBonus,
	})
	return d.Earnings
}

// WaitTimeMinutes ожидание в ресторане: от прибытия до забора заказа.
func (d *Delivery) WaitTimeMinutes() float64 {
	var arrivedAt *time.Time
	for i := range d.StatusHistory {
		if d.StatusHistory[i].Status == DeliveryAtRestaurant {
			arrivedAt = &d.StatusHistory[i].At
		}
	}
	if arrivedAt == nil || d.ActualPickupTime == nil {
		return 0
	}
	return math.Max(0, d.ActualPickupTime.Sub(*arrivedAt).Minutes())
}

// GenerateOTP intn должен возвращать значение из [0, n).
func (d *Delivery) GenerateOTP(intn func(n int) int) string {
	d.OTPCode = strconv.Itoa(otpMin + intn(otpRange))
	return d.OTPCode
}

func (d *Delivery) VerifyOTP(code string) bool {
	return d.OTPCode != "" && code == d.OTPCode
}

// AssignmentStats агрегаты по назначению и доставке.
type AssignmentStats struct {
	TotalDeliveries      int
	DeliveredCount       int
	AvgAssignmentMinutes float64
	AvgDeliveryMinutes   float64
	SuccessRate          float64
	TopDrivers           []DriverPerformance
}

type DriverPerformance struct {
	DriverID            int64
	DriverName          string
	CompletedDeliveries int
	TotalEarnings       float64
}

type AssignmentStatsFilter struct {
	RestaurantID *int64
	From         *time.Time
	To           *time.Time
}

// Cancel отмена до забора заказа. После picked_up доставку можно
// только провалить или вернуть.
func (d *Delivery) Cancel(reason, cancelledBy string, now time.Time) error {
	if err := d.UpdateStatus(DeliveryCancelled, now, nil, reason); err != nil {
		return err
	}
	d.Cancellation = &Cancellation{
		Reason:      reason,
		CancelledBy: cancelledBy,
		At:          now,
	}
	return nil
}

func (d *Delivery) Rate(rating int, comment string, now time.Time) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if d.Status != DeliveryDelivered {
		return fmt.Errorf("%w: delivery is %s", ErrInvalidState, d.Status)
	}
	if d.Rating != nil {
		return ErrAlreadyRated
	}
	d.Rating = &DeliveryRating{
		DriverRating: rating,
		Comment:      comment,
		RatedAt:      now,
	}
	return nil
}
