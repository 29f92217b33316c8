//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=shift_timeout_test
package shift_timeout

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type taskLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
}

type Service interface {
	CloseStaleShifts(ctx context.Context, maxDuration time.Duration, limit uint64) (*entities.BatchResult, error)
}
