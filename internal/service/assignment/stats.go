package assignment

import (
	"context"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/pkg/money"
)

func (s *Assignment) GetAssignmentStats(ctx context.Context, filter entities.AssignmentStatsFilter) (*entities.AssignmentStats, error) {
	if !isValidStatsFilter(filter) {
		return nil, ErrInvalidStatsInterval
	}

	stats, err := s.deliveryRepository.GetStats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get assignment stats: %w", err)
	}

	stats.AvgAssignmentMinutes = money.Round2(stats.AvgAssignmentMinutes)
	stats.AvgDeliveryMinutes = money.Round2(stats.AvgDeliveryMinutes)
	if stats.TotalDeliveries > 0 {
		stats.SuccessRate = money.Round2(float64(stats.DeliveredCount) / float64(stats.TotalDeliveries))
	}

	return stats, nil
}
