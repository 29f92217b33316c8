package entities

import (
	"math"
	"slices"
	"time"
)

const (
	MaxShiftLocations  = 500
	KeepShiftLocations = 300
)

type ShiftEndReason string

const (
	ShiftEndManual      ShiftEndReason = "manual"
	ShiftEndAutoTimeout ShiftEndReason = "auto_timeout"
	ShiftEndSystem      ShiftEndReason = "system"
	ShiftEndAdmin       ShiftEndReason = "admin"
)

func (r ShiftEndReason) String() string {
	return string(r)
}

func (r ShiftEndReason) Valid() bool {
	switch r {
	case ShiftEndManual, ShiftEndAutoTimeout, ShiftEndSystem, ShiftEndAdmin:
		return true
	}
	return false
}

type Break struct {
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Reason          string     `json:"reason,omitempty"`
}

type ShiftStats struct {
	TotalDeliveries        int     `json:"total_deliveries"`
	CompletedDeliveries    int     `json:"completed_deliveries"`
	CancelledDeliveries    int     `json:"cancelled_deliveries"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	TotalActiveMinutes     int     `json:"total_active_minutes"`
	TotalBreakMinutes      int     `json:"total_break_minutes"`
	AverageDeliveryMinutes float64 `json:"average_delivery_minutes"`
}

type ShiftGoals struct {
	TargetDeliveries   int     `json:"target_deliveries"`
	TargetEarnings     float64 `json:"target_earnings"`
	AchievedDeliveries int     `json:"achieved_deliveries"`
	AchievedEarnings   float64 `json:"achieved_earnings"`
}

func (g *ShiftGoals) DeliveriesReached() bool {
	return g.TargetDeliveries > 0 && g.AchievedDeliveries >= g.TargetDeliveries
}

func (g *ShiftGoals) EarningsReached() bool {
	return g.TargetEarnings > 0 && g.AchievedEarnings >= g.TargetEarnings
}

// DriverShift непрерывная смена водителя. У водителя не больше одной активной
// смены и не больше одного открытого перерыва в ней.
type DriverShift struct {
	ID              int64
	DriverID        int64
	StartedAt       time.Time
	EndedAt         *time.Time
	IsActive        bool
	EndReason       *ShiftEndReason
	DurationMinutes int
	StartLocation   *Coordinates
	EndLocation     *Coordinates
	Breaks          []Break
	Locations       []LocationSnapshot
	Stats           ShiftStats
	Earnings        Earnings
	Goals           *ShiftGoals
	DeliveryIDs     []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewShift(driverID int64, now time.Time, location *Coordinates, goals *ShiftGoals) *DriverShift {
	shift := &DriverShift{
		DriverID:    driverID,
		StartedAt:   now,
		IsActive:    true,
		Breaks:      []Break{},
		Locations:   []LocationSnapshot{},
		DeliveryIDs: []int64{},
		Goals:       goals,
	}
	if location != nil {
		loc := *location
		shift.StartLocation = &loc
		shift.AddLocationSnapshot(loc.Lat, loc.Lng, now)
	}
	return shift
}

// OpenBreak текущий незакрытый перерыв или nil.
func (s *DriverShift) OpenBreak() *Break {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].EndedAt == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

func (s *DriverShift) OnBreak() bool {
	return s.OpenBreak() != nil
}

func (s *DriverShift) StartBreak(now time.Time, reason string) error {
	if !s.IsActive {
		return ErrShiftNotActive
	}
	if s.OnBreak() {
		return ErrAlreadyOnBreak
	}
	s.Breaks = append(s.Breaks, Break{
		StartedAt: now,
		Reason:    reason,
	})
	return nil
}

func (s *DriverShift) EndBreak(now time.Time) (*Break, error) {
	if !s.IsActive {
		return nil, ErrShiftNotActive
	}
	open := s.OpenBreak()
	if open == nil {
		return nil, ErrNotOnBreak
	}
	closeBreak(open, now)
	s.Stats.TotalBreakMinutes = s.totalBreakMinutes()

	closed := *open
	return &closed, nil
}

// End закрывает смену. Открытый перерыв закрывается тем же моментом.
func (s *DriverShift) End(now time.Time, reason ShiftEndReason, location *Coordinates) error {
	if !s.IsActive {
		return ErrShiftNotActive
	}
	if open := s.OpenBreak(); open != nil {
		closeBreak(open, now)
	}

	s.IsActive = false
	s.EndedAt = &now
	s.EndReason = &reason
	if location != nil {
		loc := *location
		s.EndLocation = &loc
		s.AddLocationSnapshot(loc.Lat, loc.Lng, now)
	}

	s.DurationMinutes = minutesBetween(s.StartedAt, now)
	s.Stats.TotalBreakMinutes = s.totalBreakMinutes()
	s.Stats.TotalActiveMinutes = max(0, s.DurationMinutes-s.Stats.TotalBreakMinutes)
	s.Earnings.Recalculate()
	return nil
}

func (s *DriverShift) AddLocationSnapshot(lat, lng float64, now time.Time) {
	s.Locations = append(s.Locations, LocationSnapshot{Lat: lat, Lng: lng, RecordedAt: now})
	s.Locations = truncateTail(s.Locations, MaxShiftLocations, KeepShiftLocations)
}

// ShiftDeliveryRecord итог доставки, учитываемый в статистике смены.
type ShiftDeliveryRecord struct {
	DeliveryID      int64
	Completed       bool
	DistanceKm      float64
	DurationMinutes int
	Earnings        Earnings
}

// AddDelivery учитывает доставку в статистике. Повторный учет той же
// доставки игнорируется, возвращается false.
func (s *DriverShift) AddDelivery(rec ShiftDeliveryRecord) bool {
	if slices.Contains(s.DeliveryIDs, rec.DeliveryID) {
		return false
	}
	s.DeliveryIDs = append(s.DeliveryIDs, rec.DeliveryID)
	s.Stats.TotalDeliveries++

	if rec.Completed {
		s.Stats.CompletedDeliveries++
		s.Stats.TotalDistanceKm = math.Round((s.Stats.TotalDistanceKm+rec.DistanceKm)*100) / 100

		n := float64(s.Stats.CompletedDeliveries)
		avg := (s.Stats.AverageDeliveryMinutes*(n-1) + float64(rec.DurationMinutes)) / n
		s.Stats.AverageDeliveryMinutes = math.Round(avg*100) / 100
	} else {
		s.Stats.CancelledDeliveries++
	}

	// Для отмененной доставки сюда приходит только то, что реально начислено.
	s.Earnings.Add(rec.Earnings)

	if s.Goals != nil {
		s.Goals.AchievedDeliveries = s.Stats.CompletedDeliveries
		s.Goals.AchievedEarnings = s.Earnings.Total
	}
	return true
}

// HoursWorked отработанное время без перерывов на момент now.
func (s *DriverShift) HoursWorked(now time.Time) float64 {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	active := end.Sub(s.StartedAt)
	for _, b := range s.Breaks {
		bEnd := end
		if b.EndedAt != nil {
			bEnd = *b.EndedAt
		}
		active -= bEnd.Sub(b.StartedAt)
	}
	if active < 0 {
		return 0
	}
	return math.Round(active.Hours()*100) / 100
}

func (s *DriverShift) totalBreakMinutes() int {
	total := 0
	for _, b := range s.Breaks {
		total += b.DurationMinutes
	}
	return total
}

func closeBreak(b *Break, now time.Time) {
	ended := now
	b.EndedAt = &ended
	b.DurationMinutes = minutesBetween(b.StartedAt, now)
}

func minutesBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Minutes()))
}
