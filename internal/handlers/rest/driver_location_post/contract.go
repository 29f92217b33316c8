//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_location_post_test
package driver_location_post

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
	UpdateLocation(ctx context.Context, driverID int64, location entities.Coordinates) (*entities.Driver, error)
	TrackDriverLocation(ctx context.Context, deliveryID, driverID int64, location entities.Coordinates) error
}
