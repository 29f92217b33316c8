package dto

import (
	"time"

	"dispatch/internal/entities"
)

type EarningsCalculate struct {
	BaseFee         float64    `json:"base_fee" validate:"gte=0"`
	DistanceKm      float64    `json:"distance_km" validate:"gte=0"`
	WaitTimeMinutes float64    `json:"wait_time_minutes" validate:"gte=0"`
	Tip             float64    `json:"tip" validate:"gte=0"`
	At              *time.Time `json:"at"`
}

type EarningsSummary struct {
	DriverID         int64             `json:"driver_id"`
	Period           string            `json:"period"`
	From             *time.Time        `json:"from,omitempty"`
	To               time.Time         `json:"to"`
	Deliveries       int               `json:"deliveries"`
	Breakdown        entities.Earnings `json:"breakdown"`
	Adjustments      float64           `json:"adjustments"`
	Deductions       float64           `json:"deductions"`
	IncentiveBonuses float64           `json:"incentive_bonuses"`
	ReferralBonuses  float64           `json:"referral_bonuses"`
	GrossTotal       float64           `json:"gross_total"`
	NetTotal         float64           `json:"net_total"`
}

func FromEarningsSummary(s *entities.EarningsSummary) EarningsSummary {
	return EarningsSummary{
		DriverID:         s.DriverID,
		Period:           s.Period.String(),
		From:             s.From,
		To:               s.To,
		Deliveries:       s.Deliveries,
		Breakdown:        s.Breakdown,
		Adjustments:      s.Adjustments,
		Deductions:       s.Deductions,
		IncentiveBonuses: s.IncentiveBonuses,
		ReferralBonuses:  s.ReferralBonuses,
		GrossTotal:       s.GrossTotal,
		NetTotal:         s.NetTotal,
	}
}

type DailyEarnings struct {
	Date        string            `json:"date"`
	Deliveries  int               `json:"deliveries"`
	Breakdown   entities.Earnings `json:"breakdown"`
	HoursWorked float64           `json:"hours_worked"`
}

func FromDailyEarnings(d *entities.DailyEarnings) DailyEarnings {
	return DailyEarnings{
		Date:        d.Date.Format(time.DateOnly),
		Deliveries:  d.Deliveries,
		Breakdown:   d.Breakdown,
		HoursWorked: d.HoursWorked,
	}
}

type WeeklyEarnings struct {
	DriverID    int64             `json:"driver_id"`
	WeekStart   string            `json:"week_start"`
	WeekEnd     string            `json:"week_end"`
	Deliveries  int               `json:"deliveries"`
	Breakdown   entities.Earnings `json:"breakdown"`
	HoursWorked float64           `json:"hours_worked"`
	Days        []DailyEarnings   `json:"days"`
}

// FromWeeklyEarnings week_end последний день недели включительно.
func FromWeeklyEarnings(w *entities.WeeklyEarnings) WeeklyEarnings {
	res := WeeklyEarnings{
		DriverID:    w.DriverID,
		WeekStart:   w.WeekStart.Format(time.DateOnly),
		WeekEnd:     w.WeekEnd.AddDate(0, 0, -1).Format(time.DateOnly),
		Deliveries:  w.Deliveries,
		Breakdown:   w.Breakdown,
		HoursWorked: w.HoursWorked,
		Days:        make([]DailyEarnings, 0, len(w.Days)),
	}
	for i := range w.Days {
		res.Days = append(res.Days, FromDailyEarnings(&w.Days[i]))
	}
	return res
}

type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	DriverID      int64   `json:"driver_id"`
	DriverName    string  `json:"driver_name"`
	Deliveries    int     `json:"deliveries"`
	TotalEarnings float64 `json:"total_earnings"`
}

func FromLeaderboard(entries []entities.LeaderboardEntry) []LeaderboardEntry {
	res := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		res = append(res, LeaderboardEntry(e))
	}
	return res
}

type Payout struct {
	ID            int64                       `json:"id"`
	PayoutNumber  string                      `json:"payout_number"`
	DriverID      int64                       `json:"driver_id"`
	Type          string                      `json:"type"`
	Status        string                      `json:"status"`
	PeriodStart   time.Time                   `json:"period_start"`
	PeriodEnd     time.Time                   `json:"period_end"`
	GrossAmount   float64                     `json:"gross_amount"`
	Tax           float64                     `json:"tax"`
	ProcessingFee float64                     `json:"processing_fee"`
	InstantFee    float64                     `json:"instant_fee"`
	NetAmount     float64                     `json:"net_amount"`
	Breakdown     entities.PayoutBreakdown    `json:"breakdown"`
	Deliveries    []entities.PayoutDelivery   `json:"deliveries"`
	Adjustments   []entities.PayoutAdjustment `json:"adjustments"`
	PaymentMethod string                      `json:"payment_method"`
	Reference     *string                     `json:"reference,omitempty"`
	FailureReason *string                     `json:"failure_reason,omitempty"`
	RetryCount    int                         `json:"retry_count"`
	ProcessedAt   *time.Time                  `json:"processed_at,omitempty"`
	CompletedAt   *time.Time                  `json:"completed_at,omitempty"`
	FailedAt      *time.Time                  `json:"failed_at,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
}

func FromPayout(p *entities.DriverPayout) Payout {
	return Payout{
		ID:            p.ID,
		PayoutNumber:  p.PayoutNumber,
		DriverID:      p.DriverID,
		Type:          p.Type.String(),
		Status:        p.Status.String(),
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		GrossAmount:   p.GrossAmount,
		Tax:           p.Tax,
		ProcessingFee: p.ProcessingFee,
		InstantFee:    p.InstantFee,
		NetAmount:     p.NetAmount,
		Breakdown:     p.Breakdown,
		Deliveries:    p.Deliveries,
		Adjustments:   p.Adjustments,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		ProcessedAt:   p.ProcessedAt,
		CompletedAt:   p.CompletedAt,
		FailedAt:      p.FailedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func FromPayouts(payouts []entities.DriverPayout) []Payout {
	res := make([]Payout, 0, len(payouts))
	for i := range payouts {
		res = append(res, FromPayout(&payouts[i]))
	}
	return res
}

type InstantPayoutCreate struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type PayoutActionRequest struct {
	Action string `json:"action" validate:"required,oneof=process complete fail retry cancel"`
	// Value референс платежа для complete, причина для fail и cancel.
	Value string `json:"value" validate:"max=500"`
}

type AdjustmentCreate struct {
	Reason string  `json:"reason" validate:"required,max=500"`
	Amount float64 `json:"amount" validate:"required,ne=0"`
	Actor  string  `json:"actor" validate:"required,max=255"`
}

type BatchResult struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

func FromBatchResult(r *entities.BatchResult) BatchResult {
	res := BatchResult{
		Processed: r.Processed,
		Created:   r.Created,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
	}
	for _, err := range r.Errors {
		res.Errors = append(res.Errors, err.Error())
	}
	return res
}
