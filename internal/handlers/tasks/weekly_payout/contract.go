//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=weekly_payout_test
package weekly_payout

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type taskLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
}

type Service interface {
	CreateWeeklyPayouts(ctx context.Context) (*entities.BatchResult, error)
}
