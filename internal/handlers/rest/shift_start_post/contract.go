//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=shift_start_post_test
package shift_start_post

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
	StartShift(ctx context.Context, driverID int64, location *entities.Coordinates, goals *entities.ShiftGoals) (*entities.DriverShift, error)
}
