//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_rate_post_test
package delivery_rate_post

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
	RateDelivery(ctx context.Context, deliveryID int64, rating int, comment string) (*entities.Delivery, error)
}
