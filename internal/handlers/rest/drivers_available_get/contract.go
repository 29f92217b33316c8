//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=drivers_available_get_test
package drivers_available_get

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
	FindAvailableDrivers(
	ctx context.Context,
	center entities.Coordinates,
	radiusKm float64,
	restaurantID *int64,
	exclude []int64,
	) ([]entities.DriverCandidate, error)
}
