//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"

	"dispatch/internal/entities"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByOrderIDForUpdate(ctx context.Context, orderID int64) (*entities.Delivery, error)
	Save(ctx context.Context, delivery *entities.Delivery) error
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Driver, error)
	Release(ctx context.Context, driverID, deliveryID int64) error
	AddEarnings(ctx context.Context, driverID int64, amount float64, completed bool) error
	ApplyRating(ctx context.Context, driverID int64, rating int) error
}

type ShiftRecorder interface {
	RecordDelivery(ctx context.Context, driverID int64, rec entities.ShiftDeliveryRecord) (bool, error)
}

type OrderRepository interface {
	UpdateDeliveryInfo(ctx context.Context, update entities.OrderDeliveryUpdate) error
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
