//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payout_adjustment_post_test
package payout_adjustment_post

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
	AddAdjustment(ctx context.Context, payoutID int64, reason string, amount float64, actor string) (*entities.DriverPayout, error)
}
