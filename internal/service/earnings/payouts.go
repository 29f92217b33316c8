package earnings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/money"

	"github.com/google/uuid"
)

// CreateWeeklyPayout выплата за последнюю завершенную неделю (вс-сб).
// Возвращает nil без ошибки, если выплата уже есть или нечего выплачивать.
func (s *Earnings) CreateWeeklyPayout(ctx context.Context, driverID int64) (*entities.DriverPayout, error) {
	now := time.Now().UTC()
	from, to := entities.PayoutWindow(now.Local())

	var created *entities.DriverPayout
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		exists, err := s.payoutRepository.ExistsForPeriod(ctx, driverID, from)
		if err != nil {
			return fmt.Errorf("check payout: %w", err)
		}
		if exists {
			return nil
		}

		rows, err := s.deliveryRepository.GetDeliveredEarnings(ctx, driverID, &from, to)
		if err != nil {
			return fmt.Errorf("get delivered earnings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		driver, err := s.driverRepository.GetByID(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}

		payout := entities.NewWeeklyPayout(driver, from, to, rows)

		// Баланс единственный источник расчета: мгновенно выведенное
		// повторно не выплачивается.
		debited, err := s.driverRepository.DebitBalance(ctx, driverID, payout.GrossAmount)
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		if debited <= 0 {
			return nil
		}
		payout.SettleFromBalance(debited)
		payout.PayoutNumber = "PAY-" + uuid.NewString()

		created, err = s.payoutRepository.Create(ctx, payout)
		if err != nil {
			return fmt.Errorf("create payout: %w", err)
		}
		return nil
	})
	if err != nil {
		// параллельный запуск успел создать выплату за это окно
		if errors.Is(err, ErrPayoutExists) {
			return nil, nil
		}
		return nil, err
	}
	if created == nil {
		return nil, nil
	}

	s.metrics.ObservePayout(created.Type.String(), created.NetAmount)
	s.notifyPayout(ctx, created, now)

	return created, nil
}

// CreateWeeklyPayouts недельные выплаты всем водителям с доставками в окне.
func (s *Earnings) CreateWeeklyPayouts(ctx context.Context) (*entities.BatchResult, error) {
	from, to := entities.PayoutWindow(time.Now().Local())

	driverIDs, err := s.deliveryRepository.GetDriversWithDeliveredBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get drivers with deliveries: %w", err)
	}

	result := &entities.BatchResult{}
	for _, driverID := range driverIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Processed++

		payout, err := s.CreateWeeklyPayout(ctx, driverID)
		switch {
		case err != nil:
			result.Fail(fmt.Errorf("driver %d: %w", driverID, err))
		case payout == nil:
			result.Skipped++
		default:
			result.Created++
		}
	}

	return result, nil
}

// RequestInstantPayout мгновенный вывод с баланса. Комиссия процентная,
// но не меньше минимальной.
func (s *Earnings) RequestInstantPayout(ctx context.Context, driverID int64, amount float64) (*entities.DriverPayout, error) {
	if !isValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	amount = money.Round2(amount)

	fee := math.Max(s.opts.InstantMinFee, money.Percent(amount, s.opts.InstantFeePercent))
	if fee >= amount {
		return nil, ErrAmountBelowFee
	}

	now := time.Now().UTC()

	var created *entities.DriverPayout
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		driver, err := s.driverRepository.GetByID(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}

		if _, err := s.driverRepository.ChangeBalance(ctx, driverID, -amount); err != nil {
			return fmt.Errorf("withdraw balance: %w", err)
		}

		payout := entities.NewInstantPayout(driver, amount, fee, now)
		payout.PayoutNumber = "PAY-" + uuid.NewString()

		created, err = s.payoutRepository.Create(ctx, payout)
		if err != nil {
			return fmt.Errorf("create payout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObservePayout(created.Type.String(), created.NetAmount)
	s.notifyPayout(ctx, created, now)

	return created, nil
}

func (s *Earnings) GetPayout(ctx context.Context, payoutID int64) (*entities.DriverPayout, error) {
	payout, err := s.payoutRepository.GetByID(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("get payout: %w", err)
	}
	return payout, nil
}

func (s *Earnings) GetPayouts(ctx context.Context, filter entities.PayoutFilter) ([]entities.DriverPayout, error) {
	if filter.To.IsZero() {
		filter.To = time.Now().UTC()
	}
	if !filter.From.Before(filter.To) {
		return nil, ErrInvalidInterval
	}

	payouts, err := s.payoutRepository.GetBetween(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get payouts: %w", err)
	}
	return payouts, nil
}

// AddAdjustment ручная корректировка ожидающей выплаты. Отрицательная
// сумма идет в удержания.
func (s *Earnings) AddAdjustment(ctx context.Context, payoutID int64, reason string, amount float64, actor string) (*entities.DriverPayout, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAdjustment
	}

	return s.mutatePayout(ctx, payoutID, func(_ context.Context, p *entities.DriverPayout, now time.Time) error {
		return p.AddAdjustment(reason, amount, actor, now)
	})
}

func (s *Earnings) ProcessPayout(ctx context.Context, payoutID int64) (*entities.DriverPayout, error) {
	return s.mutatePayout(ctx, payoutID, func(_ context.Context, p *entities.DriverPayout, now time.Time) error {
		return p.Process(now)
	})
}

func (s *Earnings) CompletePayout(ctx context.Context, payoutID int64, reference string) (*entities.DriverPayout, error) {
	return s.mutatePayout(ctx, payoutID, func(_ context.Context, p *entities.DriverPayout, now time.Time) error {
		return p.Complete(reference, now)
	})
}

func (s *Earnings) FailPayout(ctx context.Context, payoutID int64, reason string) (*entities.DriverPayout, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}

	return s.mutatePayout(ctx, payoutID, func(_ context.Context, p *entities.DriverPayout, now time.Time) error {
		return p.Fail(reason, now)
	})
}

func (s *Earnings) RetryPayout(ctx context.Context, payoutID int64) (*entities.DriverPayout, error) {
	return s.mutatePayout(ctx, payoutID, func(_ context.Context, p *entities.DriverPayout, _ time.Time) error {
		return p.Retry()
	})
}

// CancelPayout отмена выплаты. Списанное под нее возвращается на баланс.
func (s *Earnings) CancelPayout(ctx context.Context, payoutID int64, reason string) (*entities.DriverPayout, error) {
	return s.mutatePayout(ctx, payoutID, func(ctx context.Context, p *entities.DriverPayout, _ time.Time) error {
		if err := p.Cancel(reason); err != nil {
			return err
		}
		if p.Breakdown.BalanceDebited <= 0 {
			return nil
		}

		if _, err := s.driverRepository.ChangeBalance(ctx, p.DriverID, p.Breakdown.BalanceDebited); err != nil {
			return fmt.Errorf("refund balance: %w", err)
		}
		return nil
	})
}

// PayoutAction переход выплаты по имени действия.
func (s *Earnings) PayoutAction(ctx context.Context, payoutID int64, action, value string) (*entities.DriverPayout, error) {
	switch action {
	case "process":
		return s.ProcessPayout(ctx, payoutID)
	case "complete":
		return s.CompletePayout(ctx, payoutID, value)
	case "fail":
		return s.FailPayout(ctx, payoutID, value)
	case "retry":
		return s.RetryPayout(ctx, payoutID)
	case "cancel":
		return s.CancelPayout(ctx, payoutID, value)
	default:
		return nil, ErrInvalidPayoutAction
	}
}

// mutatePayout изменение выплаты под блокировкой строки.
func (s *Earnings) mutatePayout(ctx context.Context, payoutID int64, fn func(ctx context.Context, p *entities.DriverPayout, now time.Time) error) (*entities.DriverPayout, error) {
	now := time.Now().UTC()

	var payout *entities.DriverPayout
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		payout, err = s.payoutRepository.GetByIDForUpdate(ctx, payoutID)
		if err != nil {
			return fmt.Errorf("get payout: %w", err)
		}

		if err := fn(ctx, payout, now); err != nil {
			return err
		}

		if err := s.payoutRepository.Save(ctx, payout); err != nil {
			return fmt.Errorf("save payout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payout, nil
}

func (s *Earnings) notifyPayout(ctx context.Context, payout *entities.DriverPayout, now time.Time) {
	s.notifier.Notify(ctx, entities.Notification{
		Type:          entities.NotificationPayoutCreated,
		RecipientType: entities.RecipientDriver,
		RecipientID:   payout.DriverID,
		Payload: map[string]any{
			"payout_id":     payout.ID,
			"payout_number": payout.PayoutNumber,
			"type":          payout.Type,
			"net_amount":    payout.NetAmount,
			"period_start":  payout.PeriodStart,
			"period_end":    payout.PeriodEnd,
		},
		CreatedAt: now,
	})
}
