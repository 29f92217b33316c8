//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=earnings_calculate_post_test
package earnings_calculate_post

import (
	"dispatch/internal/entities"
	"dispatch/internal/service/earnings"
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
	CalculateDeliveryEarnings(in earnings.CalculationInput) (entities.Earnings, error)
}
