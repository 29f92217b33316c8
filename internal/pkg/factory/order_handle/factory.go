package order_handle

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/service/delivery"
	"dispatch/internal/service/order"
)

const defaultCancelReason = "order cancelled"

type StatusHandlerFactory struct {
	assignmentService order.AssignmentService
	deliveryService   order.DeliveryService
}

func NewStatusHandlerFactory(assignmentService order.AssignmentService, deliveryService order.DeliveryService) *StatusHandlerFactory {
	return &StatusHandlerFactory{
		assignmentService: assignmentService,
		deliveryService:   deliveryService,
	}
}

func (f *StatusHandlerFactory) GetHandler(status entities.OrderStatusType) (order.ExecuteFn, error) {
	switch status {
	case entities.OrderReadyForDelivery:
		return f.readyHandler, nil
	case entities.OrderCancelled:
		return f.cancelledHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", order.ErrUndefinedStatus, status)
	}
}

// readyHandler заводит доставку и сразу ищет водителя. Если свободных
// нет, доставка ждет в пуле до следующего прохода.
func (f *StatusHandlerFactory) readyHandler(ctx context.Context, event entities.OrderEvent) error {
	created, err := f.assignmentService.CreateDeliveryForOrder(ctx, event.OrderID)
	if err != nil {
		// повторное событие
		if errors.Is(err, delivery.ErrDeliveryExists) {
			return nil
		}
		return fmt.Errorf("create delivery for order %d: %w", event.OrderID, err)
	}

	if _, err := f.assignmentService.AutoAssignDelivery(ctx, created.ID); err != nil {
		if errors.Is(err, entities.ErrUnavailable) {
			return nil
		}
		return fmt.Errorf("auto assign delivery %d: %w", created.ID, err)
	}
	return nil
}

func (f *StatusHandlerFactory) cancelledHandler(ctx context.Context, event entities.OrderEvent) error {
	reason := event.Reason
	if reason == "" {
		reason = defaultCancelReason
	}

	_, err := f.deliveryService.CancelDeliveryByOrder(ctx, event.OrderID, reason)
	if err != nil {
		if errors.Is(err, delivery.ErrDeliveryNotFound) {
			return nil
		}
		return fmt.Errorf("cancel delivery for order %d: %w", event.OrderID, err)
	}
	return nil
}
