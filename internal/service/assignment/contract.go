//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=assignment_test
package assignment

import (
	"context"
	"time"

	"dispatch/internal/entities"
)

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entities.Delivery) (*entities.Delivery, error)
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error)
	Save(ctx context.Context, delivery *entities.Delivery) error
	GetExpiredAssignments(ctx context.Context, now time.Time, limit uint64) ([]entities.Delivery, error)
	GetPendingUnassigned(ctx context.Context, maxAttempts int, limit uint64) ([]entities.Delivery, error)
	GetStats(ctx context.Context, filter entities.AssignmentStatsFilter) (*entities.AssignmentStats, error)
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Driver, error)
	FindAvailable(ctx context.Context, q entities.AvailableDriversQuery) ([]entities.Driver, error)
	Reserve(ctx context.Context, driverID, deliveryID int64) (*entities.Driver, error)
	Release(ctx context.Context, driverID, deliveryID int64) error
}

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Order, error)
	UpdateDeliveryInfo(ctx context.Context, update entities.OrderDeliveryUpdate) error
}

type RestaurantRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Restaurant, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type AcceptDeadlineFactory interface {
	AcceptDeadline(vehicleType entities.VehicleType, assignedAt time.Time) time.Time
}

type Metrics interface {
	ObserveAssignment(outcome string, attempts int)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
