package entities

import (
	"math"
	"time"

	"dispatch/pkg/money"
)

const MaxPayoutRetries = 3

type PayoutType string

const (
	PayoutWeekly         PayoutType = "weekly"
	PayoutInstant        PayoutType = "instant"
	PayoutTypeAdjustment PayoutType = "adjustment"
	PayoutTypeBonus      PayoutType = "bonus"
)

func (t PayoutType) String() string {
	return string(t)
}

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
	PayoutCancelled  PayoutStatus = "cancelled"
)

func (s PayoutStatus) String() string {
	return string(s)
}

type PayoutBreakdown struct {
	DeliveryFees     float64 `json:"delivery_fees"`
	DistanceBonuses  float64 `json:"distance_bonuses"`
	WaitTimeBonuses  float64 `json:"wait_time_bonuses"`
	PeakHourBonuses  float64 `json:"peak_hour_bonuses"`
	Tips             float64 `json:"tips"`
	IncentiveBonuses float64 `json:"incentive_bonuses"`
	ReferralBonuses  float64 `json:"referral_bonuses"`
	Adjustments      float64 `json:"adjustments"`
	Deductions       float64 `json:"deductions"`
	// Withdrawn часть заработка периода, уже выведенная мгновенно.
	Withdrawn float64 `json:"withdrawn"`
	// BalanceDebited сколько списано с баланса водителя под эту выплату.
	BalanceDebited float64 `json:"balance_debited"`
}

// Earned заработанная часть без корректировок и удержаний.
func (b PayoutBreakdown) Earned() float64 {
	return money.Sum(
		b.DeliveryFees,
		b.DistanceBonuses,
		b.WaitTimeBonuses,
		b.PeakHourBonuses,
		b.Tips,
		b.IncentiveBonuses,
		b.ReferralBonuses,
	)
}

func (b *PayoutBreakdown) addEarnings(e Earnings) {
	b.DeliveryFees += e.DeliveryFee
	b.DistanceBonuses += e.DistanceBonus
	b.WaitTimeBonuses += e.WaitTimeBonus
	b.PeakHourBonuses += e.PeakHourBonus
	b.Tips += e.Tip
	b.IncentiveBonuses += e.IncentiveBonus
}

type PayoutDelivery struct {
	DeliveryID     int64     `json:"delivery_id"`
	DeliveryNumber string    `json:"delivery_number"`
	CompletedAt    time.Time `json:"completed_at"`
	Earnings       float64   `json:"earnings"`
	Tip            float64   `json:"tip"`
}

type PayoutAdjustment struct {
	Reason string    `json:"reason"`
	Amount float64   `json:"amount"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

type DriverPayout struct {
	ID            int64
	PayoutNumber  string
	DriverID      int64
	Type          PayoutType
	Status        PayoutStatus
	PeriodStart   time.Time
	PeriodEnd     time.Time
	GrossAmount   float64
	Tax           float64
	ProcessingFee float64
	InstantFee    float64
	NetAmount     float64
	Breakdown     PayoutBreakdown
	Deliveries    []PayoutDelivery
	Adjustments   []PayoutAdjustment
	PaymentMethod string
	BankAccount   *BankAccount
	Reference     *string
	FailureReason *string
	RetryCount    int
	ProcessedAt   *time.Time
	CompletedAt   *time.Time
	FailedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWeeklyPayout собирает выплату из доставок периода [from, to).
func NewWeeklyPayout(driver *Driver, from, to time.Time, rows []DeliveryEarningsRow) *DriverPayout {
	p := &DriverPayout{
		DriverID:      driver.ID,
		Type:          PayoutWeekly,
		Status:        PayoutPending,
		PeriodStart:   from,
		PeriodEnd:     to,
		Deliveries:    make([]PayoutDelivery, 0, len(rows)),
		Adjustments:   []PayoutAdjustment{},
		PaymentMethod: paymentMethodFor(driver.BankAccount),
		BankAccount:   driver.BankAccount,
	}
	for _, row := range rows {
		p.Breakdown.addEarnings(row.Earnings)
		p.Deliveries = append(p.Deliveries, PayoutDelivery{
			DeliveryID:     row.DeliveryID,
			DeliveryNumber: row.DeliveryNumber,
			CompletedAt:    row.DeliveredAt,
			Earnings:       row.Earnings.Total,
			Tip:            row.Earnings.Tip,
		})
	}
	p.Recalculate()
	return p
}

// NewInstantPayout вывод amount с баланса, комиссия удерживается из суммы.
func NewInstantPayout(driver *Driver, amount, fee float64, now time.Time) *DriverPayout {
	p := &DriverPayout{
		DriverID:      driver.ID,
		Type:          PayoutInstant,
		Status:        PayoutPending,
		PeriodStart:   now,
		PeriodEnd:     now,
		InstantFee:    money.Round2(fee),
		Deliveries:    []PayoutDelivery{},
		Adjustments:   []PayoutAdjustment{},
		PaymentMethod: paymentMethodFor(driver.BankAccount),
		BankAccount:   driver.BankAccount,
	}
	p.GrossAmount = money.Round2(amount)
	p.NetAmount = money.Round2(p.GrossAmount - p.InstantFee)
	p.Breakdown.BalanceDebited = p.GrossAmount
	return p
}

// SettleFromBalance фиксирует списание с баланса под недельную выплату.
// Недостающая до gross часть уже выведена мгновенно и к выплате не идет.
func (p *DriverPayout) SettleFromBalance(debited float64) {
	p.Breakdown.BalanceDebited = debited
	p.Breakdown.Withdrawn = math.Max(0, p.GrossAmount-debited)
	p.Recalculate()
}

// Recalculate пересчитывает gross по разбивке (кроме instant, где gross
// задан суммой вывода) и net по формуле
// net = gross - tax - processingFee - instantFee - deductions - withdrawn + adjustments.
func (p *DriverPayout) Recalculate() {
	b := &p.Breakdown
	b.DeliveryFees = money.Round2(b.DeliveryFees)
	b.DistanceBonuses = money.Round2(b.DistanceBonuses)
	b.WaitTimeBonuses = money.Round2(b.WaitTimeBonuses)
	b.PeakHourBonuses = money.Round2(b.PeakHourBonuses)
	b.Tips = money.Round2(b.Tips)
	b.IncentiveBonuses = money.Round2(b.IncentiveBonuses)
	b.ReferralBonuses = money.Round2(b.ReferralBonuses)
	b.Adjustments = money.Round2(b.Adjustments)
	b.Deductions = money.Round2(b.Deductions)
	b.Withdrawn = money.Round2(b.Withdrawn)
	b.BalanceDebited = money.Round2(b.BalanceDebited)

	if p.Type != PayoutInstant {
		p.GrossAmount = b.Earned()
	}
	p.NetAmount = money.Round2(p.GrossAmount - p.Tax - p.ProcessingFee - p.InstantFee - b.Deductions - b.Withdrawn + b.Adjustments)
}

// AddAdjustment положительная сумма идет в adjustments, отрицательная
// в deductions. Менять можно только ожидающую выплату.
func (p *DriverPayout) AddAdjustment(reason string, amount float64, actor string, now time.Time) error {
	if p.Status != PayoutPending {
		return ErrPayoutNotMutable
	}
	p.Adjustments = append(p.Adjustments, PayoutAdjustment{
		Reason: reason,
		Amount: money.Round2(amount),
		Actor:  actor,
		At:     now,
	})
	if amount >= 0 {
		p.Breakdown.Adjustments += amount
	} else {
		p.Breakdown.Deductions += math.Abs(amount)
	}
	p.Recalculate()
	return nil
}

func (p *DriverPayout) Process(now time.Time) error {
	if p.Status != PayoutPending {
		return ErrPayoutNotMutable
	}
	p.Status = PayoutProcessing
	p.ProcessedAt = &now
	return nil
}

func (p *DriverPayout) Complete(reference string, now time.Time) error {
	if p.Status != PayoutProcessing {
		return ErrPayoutNotMutable
	}
	p.Status = PayoutCompleted
	p.CompletedAt = &now
	if reference != "" {
		p.Reference = &reference
	}
	p.FailureReason = nil
	return nil
}

func (p *DriverPayout) Fail(reason string, now time.Time) error {
	if p.Status != PayoutProcessing {
		return ErrPayoutNotMutable
	}
	p.Status = PayoutFailed
	p.FailedAt = &now
	p.FailureReason = &reason
	return nil
}

// Retry возвращает неуспешную выплату в очередь, не более MaxPayoutRetries раз.
func (p *DriverPayout) Retry() error {
	if p.Status != PayoutFailed {
		return ErrPayoutNotMutable
	}
	if p.RetryCount >= MaxPayoutRetries {
		return ErrPayoutRetryLimit
	}
	p.RetryCount++
	p.Status = PayoutPending
	return nil
}

func (p *DriverPayout) Cancel(reason string) error {
	if p.Status != PayoutPending && p.Status != PayoutFailed {
		return ErrPayoutNotMutable
	}
	p.Status = PayoutCancelled
	if reason != "" {
		p.FailureReason = &reason
	}
	return nil
}

func paymentMethodFor(account *BankAccount) string {
	if account == nil {
		return "manual"
	}
	return "bank_transfer"
}

// PayoutExtras суммы уровня выплат, которые учитываются в заработке
// помимо доставок.
type PayoutExtras struct {
	Adjustments      float64
	Deductions       float64
	IncentiveBonuses float64
	ReferralBonuses  float64
}

type PayoutFilter struct {
	DriverID *int64
	Status   *PayoutStatus
	From     time.Time
	To       time.Time
}

// PayoutWindow недельное окно выплат: последняя завершенная неделя
// с воскресенья по субботу относительно now, [start, end).
func PayoutWindow(now time.Time) (start, end time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end = day.AddDate(0, 0, -int(day.Weekday()))
	start = end.AddDate(0, 0, -7)
	return start, end
}
