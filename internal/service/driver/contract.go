//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_test
package driver

import (
	"context"

	"dispatch/internal/entities"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entities.Driver, error)
	GetAll(ctx context.Context, filter entities.DriverFilter) ([]entities.Driver, error)
	Update(ctx context.Context, modify entities.DriverModify) (*entities.Driver, error)
}
