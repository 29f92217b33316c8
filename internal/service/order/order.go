package order

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
)

type Service struct {
	orderRepository OrderRepository
	statusFactory   HandlerFactory
}

func New(orderRepository OrderRepository, statusFactory HandlerFactory) *Service {
	return &Service{
		orderRepository: orderRepository,
		statusFactory:   statusFactory,
	}
}

// ProcessOrderEvent реагирует на событие заказа. Статус сверяется
// с таблицей заказов, устаревшие события отбрасываются.
func (s *Service) ProcessOrderEvent(ctx context.Context, event entities.OrderEvent) (*entities.Order, error) {
	if event.OrderID <= 0 || event.Type == "" {
		return nil, ErrInvalidEvent
	}

	order, err := s.orderRepository.GetByID(ctx, event.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.Status.String() != event.Type.String() {
		return order, fmt.Errorf("%w: event %s, order %s", ErrStatusMismatch, event.Type, order.Status)
	}

	executeFn, err := s.statusFactory.GetHandler(order.Status)
	if err != nil {
		// необрабатываемые статусы пропускаем
		if errors.Is(err, ErrUndefinedStatus) {
			return order, nil
		}
		return order, err
	}

	if err := executeFn(ctx, event); err != nil {
		return nil, err
	}

	return order, nil
}
