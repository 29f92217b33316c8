//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=shift_test
package shift

import (
	"context"
	"time"

	"dispatch/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, shift *entities.DriverShift) (*entities.DriverShift, error)
	GetActive(ctx context.Context, driverID int64) (*entities.DriverShift, error)
	GetActiveForUpdate(ctx context.Context, driverID int64) (*entities.DriverShift, error)
	Save(ctx context.Context, shift *entities.DriverShift) error
	GetStale(ctx context.Context, startedBefore time.Time, limit uint64) ([]entities.DriverShift, error)
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Driver, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Driver, error)
	Update(ctx context.Context, modify entities.DriverModify) (*entities.Driver, error)
	UpdateLocation(ctx context.Context, driverID int64, location entities.Location) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
