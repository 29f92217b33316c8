package entities

import (
	"math"
	"time"

	"dispatch/pkg/money"
)

const (
	DefaultBaseDeliveryFee = 3.0
	DefaultDistanceRate    = 0.5
	FreeDistanceKm         = 3.0
	FreeWaitMinutes        = 10.0
	WaitTimeRatePerMinute  = 0.15
	PeakHourMultiplier     = 1.2
	DefaultPeakMultiplier  = 1.0
)

// часы пик, включительно
const (
	peakLunchStart  = 11
	peakLunchEnd    = 14
	peakDinnerStart = 18
	peakDinnerEnd   = 22
)

// Earnings разбивка заработка. Total всегда равен сумме компонентов.
type Earnings struct {
	DeliveryFee    float64 `json:"delivery_fee"`
	DistanceBonus  float64 `json:"distance_bonus"`
	WaitTimeBonus  float64 `json:"wait_time_bonus"`
	PeakHourBonus  float64 `json:"peak_hour_bonus"`
	Tip            float64 `json:"tip"`
	IncentiveBonus float64 `json:"incentive_bonus"`
	Total          float64 `json:"total"`
}

func (e *Earnings) Recalculate() {
	e.DeliveryFee = money.Round2(e.DeliveryFee)
	e.DistanceBonus = money.Round2(e.DistanceBonus)
	e.WaitTimeBonus = money.Round2(e.WaitTimeBonus)
	e.PeakHourBonus = money.Round2(e.PeakHourBonus)
	e.Tip = money.Round2(e.Tip)
	e.IncentiveBonus = money.Round2(e.IncentiveBonus)
	e.Total = money.Sum(e.DeliveryFee, e.DistanceBonus, e.WaitTimeBonus, e.PeakHourBonus, e.Tip, e.IncentiveBonus)
}

func (e *Earnings) Add(other Earnings) {
	e.DeliveryFee += other.DeliveryFee
	e.DistanceBonus += other.DistanceBonus
	e.WaitTimeBonus += other.WaitTimeBonus
	e.PeakHourBonus += other.PeakHourBonus
	e.Tip += other.Tip
	e.IncentiveBonus += other.IncentiveBonus
	e.Recalculate()
}

type EarningsInput struct {
	BaseFee         float64
	DistanceKm      float64
	DistanceRate    float64
	WaitTimeMinutes float64
	PeakMultiplier  float64
	Tip             float64
	IncentiveBonus  float64
}

// CalculateEarnings чистый расчет заработка за одну доставку.
// Пиковая надбавка начисляется на (базовая ставка + бонус за дистанцию).
func CalculateEarnings(in EarningsInput) Earnings {
	rate := in.DistanceRate
	if rate == 0 {
		rate = DefaultDistanceRate
	}
	multiplier := in.PeakMultiplier
	if multiplier == 0 {
		multiplier = DefaultPeakMultiplier
	}

	distanceBonus := money.Round2(math.Max(0, in.DistanceKm-FreeDistanceKm) * rate)

	e := Earnings{
		DeliveryFee:    in.BaseFee,
		DistanceBonus:  distanceBonus,
		WaitTimeBonus:  math.Max(0, in.WaitTimeMinutes-FreeWaitMinutes) * WaitTimeRatePerMinute,
		PeakHourBonus:  math.Max(0, (in.BaseFee+distanceBonus)*(multiplier-1)),
		Tip:            in.Tip,
		IncentiveBonus: in.IncentiveBonus,
	}
	e.Recalculate()
	return e
}

func IsPeakHour(t time.Time) bool {
	h := t.Hour()
	return (h >= peakLunchStart && h <= peakLunchEnd) || (h >= peakDinnerStart && h <= peakDinnerEnd)
}

func PeakMultiplierAt(t time.Time) float64 {
	if IsPeakHour(t) {
		return PeakHourMultiplier
	}
	return DefaultPeakMultiplier
}

type EarningsPeriod string

const (
	PeriodToday EarningsPeriod = "today"
	PeriodWeek  EarningsPeriod = "week"
	PeriodMonth EarningsPeriod = "month"
	PeriodAll   EarningsPeriod = "all"
)

func (p EarningsPeriod) String() string {
	return string(p)
}

// EarningsSummary сводка заработка водителя за период.
type EarningsSummary struct {
	DriverID         int64
	Period           EarningsPeriod
	From             *time.Time
	To               time.Time
	Deliveries       int
	Breakdown        Earnings
	Adjustments      float64
	Deductions       float64
	IncentiveBonuses float64
	ReferralBonuses  float64
	GrossTotal       float64
	NetTotal         float64
}

type DailyEarnings struct {
	Date        time.Time
	Deliveries  int
	Breakdown   Earnings
	HoursWorked float64
}

type WeeklyEarnings struct {
	DriverID    int64
	WeekStart   time.Time
	WeekEnd     time.Time
	Deliveries  int
	Breakdown   Earnings
	HoursWorked float64
	Days        []DailyEarnings
}

type LeaderboardEntry struct {
	Rank          int
	DriverID      int64
	DriverName    string
	Deliveries    int
	TotalEarnings float64
}

// DeliveryEarningsRow строка выборки доставленных заказов для агрегатов.
type DeliveryEarningsRow struct {
	DeliveryID     int64
	DeliveryNumber string
	DriverID       int64
	DeliveredAt    time.Time
	Earnings       Earnings
}
