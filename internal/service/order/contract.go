//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"dispatch/internal/entities"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Order, error)
}

type AssignmentService interface {
	CreateDeliveryForOrder(ctx context.Context, orderID int64) (*entities.Delivery, error)
	AutoAssignDelivery(ctx context.Context, deliveryID int64) (*entities.Delivery, error)
}

type DeliveryService interface {
	CancelDeliveryByOrder(ctx context.Context, orderID int64, reason string) (*entities.Delivery, error)
}

type (
	ExecuteFn      func(ctx context.Context, event entities.OrderEvent) error
	HandlerFactory interface {
		GetHandler(status entities.OrderStatusType) (ExecuteFn, error)
	}
)
