package earnings

import (
	"context"
	"fmt"
	"math"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/money"
)

type Options struct {
	InstantFeePercent float64
	InstantMinFee     float64
}

type Earnings struct {
	deliveryRepository DeliveryRepository
	driverRepository   DriverRepository
	payoutRepository   PayoutRepository
	shiftRepository    ShiftRepository
	notifier           Notifier
	metrics            Metrics
	txManager          TxManager
	opts               Options
}

func New(
	deliveryRepository DeliveryRepository,
	driverRepository DriverRepository,
	payoutRepository PayoutRepository,
	shiftRepository ShiftRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TxManager,
	opts Options,
) *Earnings {
	return &Earnings{
		deliveryRepository: deliveryRepository,
		driverRepository:   driverRepository,
		payoutRepository:   payoutRepository,
		shiftRepository:    shiftRepository,
		notifier:           notifier,
		metrics:            metrics,
		txManager:          txManager,
		opts:               opts,
	}
}

type CalculationInput struct {
	BaseFee         float64
	DistanceKm      float64
	WaitTimeMinutes float64
	Tip             float64
	At              time.Time
}

// CalculateDeliveryEarnings предварительный расчет заработка за доставку.
// Час пик определяется по локальному времени сервиса.
func (s *Earnings) CalculateDeliveryEarnings(in CalculationInput) (entities.Earnings, error) {
	if !isValidCalculation(in) {
		return entities.Earnings{}, ErrInvalidCalculation
	}

	at := in.At
	if at.IsZero() {
		at = time.Now()
	}

	return entities.CalculateEarnings(entities.EarningsInput{
		BaseFee:         in.BaseFee,
		DistanceKm:      in.DistanceKm,
		DistanceRate:    entities.DefaultDistanceRate,
		WaitTimeMinutes: in.WaitTimeMinutes,
		PeakMultiplier:  entities.PeakMultiplierAt(at.Local()),
		Tip:             in.Tip,
	}), nil
}

func (s *Earnings) GetDriverEarnings(ctx context.Context, driverID int64, period entities.EarningsPeriod) (*entities.EarningsSummary, error) {
	if !isValidPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	now := time.Now().Local()
	from := periodStart(period, now)

	rows, err := s.deliveryRepository.GetDeliveredEarnings(ctx, driverID, from, now)
	if err != nil {
		return nil, fmt.Errorf("get delivered earnings: %w", err)
	}

	extras, err := s.payoutRepository.SumExtras(ctx, driverID, from, now)
	if err != nil {
		return nil, fmt.Errorf("get payout extras: %w", err)
	}

	summary := &entities.EarningsSummary{
		DriverID:         driverID,
		Period:           period,
		From:             from,
		To:               now,
		Deliveries:       len(rows),
		Breakdown:        sumRows(rows),
		Adjustments:      money.Round2(extras.Adjustments),
		Deductions:       money.Round2(extras.Deductions),
		IncentiveBonuses: money.Round2(extras.IncentiveBonuses),
		ReferralBonuses:  money.Round2(extras.ReferralBonuses),
	}
	summary.GrossTotal = money.Sum(
		summary.Breakdown.Total,
		summary.Adjustments,
		summary.IncentiveBonuses,
		summary.ReferralBonuses,
	)
	summary.NetTotal = money.Round2(summary.GrossTotal - summary.Deductions)

	return summary, nil
}

// GetDailyEarnings сводка за календарный день. Часы смены относятся
// к дню ее начала.
func (s *Earnings) GetDailyEarnings(ctx context.Context, driverID int64, day time.Time) (*entities.DailyEarnings, error) {
	from := startOfDay(day.Local())
	to := from.AddDate(0, 0, 1)

	days, err := s.rollup(ctx, driverID, from, to)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

// GetWeeklyEarnings неделя с понедельника по воскресенье, содержащая day,
// с разбивкой по дням.
func (s *Earnings) GetWeeklyEarnings(ctx context.Context, driverID int64, day time.Time) (*entities.WeeklyEarnings, error) {
	from := startOfWeek(day.Local())
	to := from.AddDate(0, 0, 7)

	days, err := s.rollup(ctx, driverID, from, to)
	if err != nil {
		return nil, err
	}

	week := &entities.WeeklyEarnings{
		DriverID:  driverID,
		WeekStart: from,
		WeekEnd:   to,
		Days:      days,
	}
	for _, d := range days {
		week.Deliveries += d.Deliveries
		week.Breakdown.Add(d.Breakdown)
		week.HoursWorked += d.HoursWorked
	}
	week.HoursWorked = money.Round2(week.HoursWorked)

	return week, nil
}

// GetEarningsLeaderboard водители с наибольшим заработком за неделю или месяц.
func (s *Earnings) GetEarningsLeaderboard(ctx context.Context, period entities.EarningsPeriod, limit uint64) ([]entities.LeaderboardEntry, error) {
	if !isValidLeaderboardPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	switch {
	case limit == 0:
		limit = defaultLeaderboardSize
	case limit > maxLeaderboardSize:
		limit = maxLeaderboardSize
	}

	from := periodStart(period, time.Now().Local())

	entries, err := s.deliveryRepository.Leaderboard(ctx, *from, limit)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	for i := range entries {
		entries[i].TotalEarnings = money.Round2(entries[i].TotalEarnings)
	}

	return entries, nil
}

// AddTip чаевые к доставленной доставке. Сумма сразу попадает на баланс водителя.
func (s *Earnings) AddTip(ctx context.Context, deliveryID int64, amount float64) (*entities.Earnings, error) {
	if !isValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	amount = money.Round2(amount)

	var earnings *entities.Earnings
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.deliveryRepository.GetByID(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if delivery.Status != entities.DeliveryDelivered || delivery.DriverID == nil {
			return ErrTipNotAllowed
		}

		earnings, err = s.deliveryRepository.AddTip(ctx, deliveryID, amount)
		if err != nil {
			return fmt.Errorf("add tip: %w", err)
		}

		if err := s.driverRepository.AddEarnings(ctx, *delivery.DriverID, amount, false); err != nil {
			return fmt.Errorf("add driver earnings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return earnings, nil
}

func (s *Earnings) rollup(ctx context.Context, driverID int64, from, to time.Time) ([]entities.DailyEarnings, error) {
	rows, err := s.deliveryRepository.GetDeliveredEarnings(ctx, driverID, &from, to)
	if err != nil {
		return nil, fmt.Errorf("get delivered earnings: %w", err)
	}

	shifts, err := s.shiftRepository.GetByDriverBetween(ctx, driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get shifts: %w", err)
	}

	n := int(math.Round(to.Sub(from).Hours() / 24))
	days := make([]entities.DailyEarnings, n)
	for i := range days {
		days[i].Date = from.AddDate(0, 0, i)
	}

	index := func(t time.Time) int {
		return int(math.Round(startOfDay(t.In(from.Location())).Sub(from).Hours() / 24))
	}

	for _, row := range rows {
		i := index(row.DeliveredAt)
		if i < 0 || i >= n {
			continue
		}
		days[i].Deliveries++
		days[i].Breakdown.Add(row.Earnings)
	}

	now := time.Now().UTC()
	for _, shift := range shifts {
		i := index(shift.StartedAt)
		if i < 0 || i >= n {
			continue
		}
		days[i].HoursWorked = money.Round2(days[i].HoursWorked + shift.HoursWorked(now))
	}

	return days, nil
}

func sumRows(rows []entities.DeliveryEarningsRow) entities.Earnings {
	var total entities.Earnings
	for _, row := range rows {
		total.Add(row.Earnings)
	}
	return total
}
