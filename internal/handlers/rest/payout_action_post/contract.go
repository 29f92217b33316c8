//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payout_action_post_test
package payout_action_post

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
	PayoutAction(ctx context.Context, payoutID int64, action, value string) (*entities.DriverPayout, error)
}
