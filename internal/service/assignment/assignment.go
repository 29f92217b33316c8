package assignment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/geo"
	"dispatch/pkg/money"

	"github.com/google/uuid"
)

const (
	OutcomeAssigned  = "assigned"
	OutcomeNoDriver  = "no_driver"
	OutcomeExhausted = "exhausted"
	OutcomeRejected  = "rejected"
	OutcomeExpired   = "expired"
)

type Options struct {
	SearchRadiusKm  float64
	MaxAttempts     int
	BaseDeliveryFee float64
	SweepBatchSize  uint64
}

type Assignment struct {
	deliveryRepository   DeliveryRepository
	driverRepository     DriverRepository
	orderRepository      OrderRepository
	restaurantRepository RestaurantRepository
	notifier             Notifier
	deadlineFactory      AcceptDeadlineFactory
	metrics              Metrics
	txManager            TxManager
	opts                 Options
}

func New(
	deliveryRepository DeliveryRepository,
	driverRepository DriverRepository,
	orderRepository OrderRepository,
	restaurantRepository RestaurantRepository,
	notifier Notifier,
	deadlineFactory AcceptDeadlineFactory,
	metrics Metrics,
	txManager TxManager,
	opts Options,
) *Assignment {
	return &Assignment{
		deliveryRepository:   deliveryRepository,
		driverRepository:     driverRepository,
		orderRepository:      orderRepository,
		restaurantRepository: restaurantRepository,
		notifier:             notifier,
		deadlineFactory:      deadlineFactory,
		metrics:              metrics,
		txManager:            txManager,
		opts:                 opts,
	}
}

// FindAvailableDrivers кандидаты в радиусе от точки, по убыванию оценки.
// Водители из exclude не рассматриваются.
func (s *Assignment) FindAvailableDrivers(
	ctx context.Context,
	center entities.Coordinates,
	radiusKm float64,
	restaurantID *int64,
	exclude []int64,
) ([]entities.DriverCandidate, error) {
	if radiusKm <= 0 {
		return nil, ErrInvalidRadius
	}
	if !center.Valid() {
		return nil, entities.ErrInvalidCoordinates
	}

	drivers, err := s.driverRepository.FindAvailable(ctx, entities.AvailableDriversQuery{
		Center:       center,
		RadiusKm:     radiusKm,
		RestaurantID: restaurantID,
		ExcludeIDs:   exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("find available drivers: %w", err)
	}

	candidates := make([]entities.DriverCandidate, 0, len(drivers))
	for _, driver := range drivers {
		if driver.Location == nil || slices.Contains(exclude, driver.ID) {
			continue
		}

		distance := geo.Distance(center.Lat, center.Lng, driver.Location.Lat, driver.Location.Lng)
		if distance > radiusKm {
			continue
		}

		candidates = append(candidates, entities.DriverCandidate{
			Driver:     driver,
			DistanceKm: money.Round2(distance),
			ETAMinutes: geo.EstimateETA(distance),
			Score: geo.Score(geo.ScoreInput{
				DistanceKm:     distance,
				MaxDistanceKm:  radiusKm,
				AverageRating:  driver.AverageRating,
				CompletionRate: driver.CompletionRate,
				VehicleType:    driver.VehicleType.String(),
			}),
		})
	}

	slices.SortStableFunc(candidates, func(a, b entities.DriverCandidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return candidates, nil
}

// CreateDeliveryForOrder заводит доставку по заказу и привязывает ее к заказу.
func (s *Assignment) CreateDeliveryForOrder(ctx context.Context, orderID int64) (*entities.Delivery, error) {
	now := time.Now().UTC()

	var created *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.orderRepository.GetByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order.FulfillmentType != entities.FulfillmentDelivery {
			return ErrNotDeliveryOrder
		}

		restaurant, err := s.restaurantRepository.GetByID(ctx, order.RestaurantID)
		if err != nil {
			return fmt.Errorf("get restaurant: %w", err)
		}

		number := "DLV-" + uuid.NewString()
		delivery := entities.NewDelivery(order, restaurant.PickupAddress(), number, s.opts.BaseDeliveryFee, now)

		created, err = s.deliveryRepository.Create(ctx, delivery)
		if err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}

		return s.updateOrder(ctx, created, nil)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// AssignDeliveryToDriver ручное назначение конкретному водителю.
func (s *Assignment) AssignDeliveryToDriver(ctx context.Context, deliveryID, driverID int64) (*entities.Delivery, error) {
	return s.assign(ctx, deliveryID, driverID, nil)
}

// AutoAssignDelivery назначает лучшего кандидата в радиусе. Если кандидата
// перехватили параллельно, пробует следующего. После MaxAttempts доставка
// остается в пуле с приоритетом.
func (s *Assignment) AutoAssignDelivery(ctx context.Context, deliveryID int64) (*entities.Delivery, error) {
	delivery, err := s.deliveryRepository.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if delivery.Status != entities.DeliveryPending {
		return nil, ErrDeliveryNotPending
	}

	if delivery.Assignment.Attempts >= s.opts.MaxAttempts {
		if err := s.markPriority(ctx, deliveryID); err != nil {
			return nil, err
		}
		s.metrics.ObserveAssignment(OutcomeExhausted, delivery.Assignment.Attempts)
		return nil, ErrAttemptsExhausted
	}

	if delivery.Pickup.Coordinates == nil {
		return nil, ErrMissingCoordinates
	}

	candidates, err := s.FindAvailableDrivers(
		ctx,
		*delivery.Pickup.Coordinates,
		s.opts.SearchRadiusKm,
		&delivery.RestaurantID,
		delivery.Assignment.RejectedDriverIDs,
	)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		route := routeEstimate{toRestaurantKm: candidate.DistanceKm}

		assigned, err := s.assign(ctx, deliveryID, candidate.Driver.ID, &route)
		if err == nil {
			return assigned, nil
		}
		// водителя заняли между выборкой и резервом
		if errors.Is(err, entities.ErrUnavailable) {
			continue
		}
		return nil, err
	}

	s.metrics.ObserveAssignment(OutcomeNoDriver, delivery.Assignment.Attempts)
	return nil, ErrNoAvailableDrivers
}

// AcceptAssignment водитель подтверждает назначение до истечения срока.
func (s *Assignment) AcceptAssignment(ctx context.Context, deliveryID, driverID int64) (*entities.Delivery, error) {
	now := time.Now().UTC()

	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}

		expiresAt := delivery.Assignment.ExpiresAt
		if expiresAt != nil && now.After(*expiresAt) {
			return ErrAssignmentExpired
		}

		if err := delivery.UpdateStatus(entities.DeliveryAccepted, now, nil, ""); err != nil {
			return err
		}
		if err := s.deliveryRepository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}

		driver, err := s.driverRepository.GetByID(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}
		return s.updateOrder(ctx, delivery, entities.NewOrderDriverInfo(driver))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, entities.Notification{
		Type:          entities.NotificationDeliveryAccepted,
		RecipientType: entities.RecipientCustomer,
		RecipientID:   delivery.OrderID,
		DeliveryID:    &delivery.ID,
		OrderID:       &delivery.OrderID,
		Payload: map[string]any{
			"delivery_number": delivery.DeliveryNumber,
			"driver_id":       driverID,
		},
		CreatedAt: now,
	})

	return delivery, nil
}

// RejectAssignment возвращает доставку в пул и сразу ищет другого водителя.
// Если никого нет, доставка остается pending и ошибкой это не считается.
func (s *Assignment) RejectAssignment(ctx context.Context, deliveryID, driverID int64, reason string) (*entities.Delivery, error) {
	if reason == "" {
		reason = "rejected by driver"
	}

	rejected, err := s.unassign(ctx, deliveryID, driverID, reason, OutcomeRejected)
	if err != nil {
		return nil, err
	}

	reassigned, err := s.AutoAssignDelivery(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, entities.ErrUnavailable) {
			return rejected, nil
		}
		return rejected, fmt.Errorf("reassign delivery: %w", err)
	}

	return reassigned, nil
}

// routeEstimate плечо водитель -> ресторан. Плечо ресторан -> клиент
// считается по адресам доставки.
type routeEstimate struct {
	toRestaurantKm float64
}

func (s *Assignment) assign(ctx context.Context, deliveryID, driverID int64, route *routeEstimate) (*entities.Delivery, error) {
	now := time.Now().UTC()

	var (
		delivery *entities.Delivery
		driver   *entities.Driver
	)
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.deliveryRepository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if delivery.Status != entities.DeliveryPending {
			return ErrDeliveryNotPending
		}
		if delivery.WasRejectedBy(driverID) {
			return ErrDriverRejected
		}

		driver, err = s.driverRepository.Reserve(ctx, driverID, deliveryID)
		if err != nil {
			return fmt.Errorf("reserve driver: %w", err)
		}

		if route != nil {
			applyRoute(delivery, route.toRestaurantKm)
		}

		expiresAt := s.deadlineFactory.AcceptDeadline(driver.VehicleType, now)
		if err := delivery.Assign(driverID, now, &expiresAt); err != nil {
			return err
		}

		if err := s.deliveryRepository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return s.updateOrder(ctx, delivery, entities.NewOrderDriverInfo(driver))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveAssignment(OutcomeAssigned, delivery.Assignment.Attempts)
	s.notifier.Notify(ctx, entities.Notification{
		Type:          entities.NotificationDeliveryAssigned,
		RecipientType: entities.RecipientDriver,
		RecipientID:   driverID,
		DeliveryID:    &delivery.ID,
		OrderID:       &delivery.OrderID,
		Payload: map[string]any{
			"delivery_number": delivery.DeliveryNumber,
			"pickup":          delivery.Pickup,
			"dropoff":         delivery.Dropoff,
			"expires_at":      delivery.Assignment.ExpiresAt,
			"earnings":        delivery.Earnings.Total,
		},
		CreatedAt: now,
	})

	return delivery, nil
}

// unassign снимает водителя с назначения и освобождает его.
func (s *Assignment) unassign(ctx context.Context, deliveryID, driverID int64, reason, outcome string) (*entities.Delivery, error) {
	now := time.Now().UTC()

	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}

		if err := delivery.Reject(driverID, now, reason); err != nil {
			return err
		}
		if err := s.deliveryRepository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		if err := s.driverRepository.Release(ctx, driverID, deliveryID); err != nil {
			return fmt.Errorf("release driver: %w", err)
		}
		return s.updateOrder(ctx, delivery, nil)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveAssignment(outcome, delivery.Assignment.Attempts)
	return delivery, nil
}

func (s *Assignment) markPriority(ctx context.Context, deliveryID int64) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.deliveryRepository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if delivery.Assignment.Priority {
			return nil
		}

		delivery.Assignment.Priority = true
		if err := s.deliveryRepository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return nil
	})
}

func (s *Assignment) lockAssigned(ctx context.Context, deliveryID, driverID int64) (*entities.Delivery, error) {
	delivery, err := s.deliveryRepository.GetByIDForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if !delivery.IsAssignedTo(driverID) {
		return nil, ErrNotAssignedToDriver
	}
	return delivery, nil
}

func (s *Assignment) updateOrder(ctx context.Context, delivery *entities.Delivery, driver *entities.OrderDriverInfo) error {
	err := s.orderRepository.UpdateDeliveryInfo(ctx, entities.OrderDeliveryUpdate{
		OrderID:    delivery.OrderID,
		DeliveryID: delivery.ID,
		Status:     delivery.Status,
		Driver:     driver,
	})
	if err != nil {
		return fmt.Errorf("update order delivery info: %w", err)
	}
	return nil
}

// applyRoute оценка маршрута водитель -> ресторан -> клиент и бонус
// за дистанцию сверх бесплатной.
func applyRoute(delivery *entities.Delivery, toRestaurantKm float64) {
	total := toRestaurantKm
	pickup, dropoff := delivery.Pickup.Coordinates, delivery.Dropoff.Coordinates
	if pickup != nil && dropoff != nil {
		total += geo.Distance(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)
	}
	total = money.Round2(total)

	delivery.EstimatedDistanceKm = total
	delivery.EstimatedDurationMin = geo.EstimateETA(total)

	delivery.Earnings.DistanceBonus = 0
	if total > entities.FreeDistanceKm {
		delivery.Earnings.DistanceBonus = (total - entities.FreeDistanceKm) * entities.DefaultDistanceRate
	}
	delivery.Earnings.Recalculate()
}
