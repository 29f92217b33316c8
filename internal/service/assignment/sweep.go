package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
)

const expiredReason = "assignment expired"

// ExpireStaleAssignments снимает водителей, не принявших назначение
// вовремя, и переназначает их доставки. Затем повторяет автоназначение
// для доставок, оставшихся в пуле. Ошибки отдельных доставок
// собираются в результат.
func (s *Assignment) ExpireStaleAssignments(ctx context.Context) (*entities.BatchResult, error) {
	now := time.Now().UTC()

	expired, err := s.deliveryRepository.GetExpiredAssignments(ctx, now, s.opts.SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("get expired assignments: %w", err)
	}

	result := &entities.BatchResult{}
	for _, delivery := range expired {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if delivery.DriverID == nil {
			continue
		}
		result.Processed++

		if _, err := s.unassign(ctx, delivery.ID, *delivery.DriverID, expiredReason, OutcomeExpired); err != nil {
			// водитель успел принять или отказаться
			if errors.Is(err, entities.ErrInvalidState) {
				result.Skipped++
				continue
			}
			result.Fail(fmt.Errorf("expire delivery %d: %w", delivery.ID, err))
			continue
		}

		s.reassign(ctx, delivery.ID, result)
	}

	pending, err := s.deliveryRepository.GetPendingUnassigned(ctx, s.opts.MaxAttempts, s.opts.SweepBatchSize)
	if err != nil {
		return result, fmt.Errorf("get pending deliveries: %w", err)
	}

	for _, delivery := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Processed++
		s.reassign(ctx, delivery.ID, result)
	}

	return result, nil
}

func (s *Assignment) reassign(ctx context.Context, deliveryID int64, result *entities.BatchResult) {
	_, err := s.AutoAssignDelivery(ctx, deliveryID)
	switch {
	case err == nil:
		result.Created++
	case errors.Is(err, entities.ErrUnavailable), errors.Is(err, ErrDeliveryNotPending):
		result.Skipped++
	default:
		result.Fail(fmt.Errorf("reassign delivery %d: %w", deliveryID, err))
	}
}
