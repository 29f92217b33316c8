//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_payout_instant_post_test
package driver_payout_instant_post

import (
	"context"

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
	RequestInstantPayout(ctx context.Context, driverID int64, amount float64) (*entities.DriverPayout, error)
}
