//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_earnings_weekly_get_test
package driver_earnings_weekly_get

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	GetWeeklyEarnings(ctx context.Context, driverID int64, day time.Time) (*entities.WeeklyEarnings, error)
}
