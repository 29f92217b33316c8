package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/entities"
)

type Delivery struct {
	repository       Repository
	driverRepository DriverRepository
	orderRepository  OrderRepository
	shiftRecorder    ShiftRecorder
	notifier         Notifier
	txManager        TxManager
}

func New(
	repository Repository,
	driverRepository DriverRepository,
	orderRepository OrderRepository,
	shiftRecorder ShiftRecorder,
	notifier Notifier,
	txManager TxManager,
) *Delivery {
	return &Delivery{
		repository:       repository,
		driverRepository: driverRepository,
		orderRepository:  orderRepository,
		shiftRecorder:    shiftRecorder,
		notifier:         notifier,
		txManager:        txManager,
	}
}

func (s *Delivery) GetDelivery(ctx context.Context, id int64) (*entities.Delivery, error) {
	if id <= 0 {
		return nil, ErrInvalidDeliveryID
	}

	delivery, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return delivery, nil
}

// UpdateStatus продвигает доставку по маршруту. Завершение, отмена,
// провал и возврат идут через свои операции.
func (s *Delivery) UpdateStatus(
	ctx context.Context,
	deliveryID, driverID int64,
	status entities.DeliveryStatus,
	location *entities.Coordinates,
	note string,
) (*entities.Delivery, error) {
	if !isProgressStatus(status) {
		return nil, ErrStatusNotAllowed
	}
	if location != nil && !location.Valid() {
		return nil, entities.ErrInvalidCoordinates
	}

	now := time.Now().UTC()

	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}

		if err := delivery.UpdateStatus(status, now, location, note); err != nil {
			return err
		}
		if location != nil {
			delivery.UpdateDriverLocation(location.Lat, location.Lng, now)
		}

		if err := s.repository.Save(ctx, delivery); err != nil {
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

	return delivery, nil
}

// CompleteDelivery фиксирует вручение: подтверждение, итоговый заработок,
// освобождение и начисление водителю, учет в смене. Все в одной транзакции.
func (s *Delivery) CompleteDelivery(
	ctx context.Context,
	deliveryID, driverID int64,
	proof entities.ProofOfDelivery,
	otpCode string,
) (*entities.Delivery, error) {
	if !isValidProof(proof) {
		return nil, ErrInvalidProof
	}
	if proof.Location != nil && !proof.Location.Valid() {
		return nil, entities.ErrInvalidCoordinates
	}

	now := time.Now().UTC()

	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}

		if proof.Type == entities.ProofOTP {
			if !delivery.VerifyOTP(otpCode) {
				return ErrInvalidOTP
			}
			proof.OTPVerified = true
		}

		if err := delivery.UpdateStatus(entities.DeliveryDelivered, now, proof.Location, ""); err != nil {
			return err
		}
		proof.CollectedAt = now
		delivery.Proof = &proof

		earnings := delivery.CalculateEarnings(
			delivery.Earnings.DeliveryFee,
			entities.DefaultDistanceRate,
			entities.PeakMultiplierAt(now.Local()),
			delivery.WaitTimeMinutes(),
		)

		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}

		if err := s.driverRepository.Release(ctx, driverID, delivery.ID); err != nil {
			return fmt.Errorf("release driver: %w", err)
		}
		if err := s.driverRepository.AddEarnings(ctx, driverID, earnings.Total, true); err != nil {
			return fmt.Errorf("add driver earnings: %w", err)
		}

		if _, err := s.shiftRecorder.RecordDelivery(ctx, driverID, shiftRecord(delivery, true)); err != nil {
			return fmt.Errorf("record delivery in shift: %w", err)
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
		Type:          entities.NotificationDeliveryCompleted,
		RecipientType: entities.RecipientCustomer,
		RecipientID:   delivery.OrderID,
		DeliveryID:    &delivery.ID,
		OrderID:       &delivery.OrderID,
		Payload: map[string]any{
			"delivery_number": delivery.DeliveryNumber,
			"delivered_at":    now,
		},
		CreatedAt: now,
	})

	return delivery, nil
}

func (s *Delivery) CancelDelivery(ctx context.Context, deliveryID int64, reason, cancelledBy string) (*entities.Delivery, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	var (
		delivery *entities.Delivery
		released *int64
	)
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		released, err = s.cancel(ctx, delivery, reason, cancelledBy)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancelled(ctx, delivery, released)
	return delivery, nil
}

// CancelDeliveryByOrder отмена по событию заказа. Уже завершенная
// доставка не трогается.
func (s *Delivery) CancelDeliveryByOrder(ctx context.Context, orderID int64, reason string) (*entities.Delivery, error) {
	if reason == "" {
		reason = "order cancelled"
	}

	var (
		delivery *entities.Delivery
		released *int64
	)
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.repository.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get delivery by order: %w", err)
		}

		if delivery.Status.IsTerminal() {
			return nil
		}

		released, err = s.cancel(ctx, delivery, reason, "order")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancelled(ctx, delivery, released)
	return delivery, nil
}

// FailDelivery доставка не состоялась. Водитель освобождается, в смене
// она учитывается как незавершенная.
func (s *Delivery) FailDelivery(ctx context.Context, deliveryID, driverID int64, reason string) (*entities.Delivery, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	return s.finish(ctx, deliveryID, driverID, entities.DeliveryFailed, reason)
}

// ReturnDelivery заказ возвращен в ресторан.
func (s *Delivery) ReturnDelivery(ctx context.Context, deliveryID, driverID int64, note string) (*entities.Delivery, error) {
	return s.finish(ctx, deliveryID, driverID, entities.DeliveryReturned, note)
}

// TrackDriverLocation пишет позицию в трек доставки, пока она в работе.
func (s *Delivery) TrackDriverLocation(ctx context.Context, deliveryID, driverID int64, location entities.Coordinates) error {
	if !location.Valid() {
		return entities.ErrInvalidCoordinates
	}

	now := time.Now().UTC()

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}
		if delivery.Status.IsTerminal() {
			return ErrDeliveryFinished
		}

		delivery.UpdateDriverLocation(location.Lat, location.Lng, now)
		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return nil
	})
}

func (s *Delivery) finish(
	ctx context.Context,
	deliveryID, driverID int64,
	status entities.DeliveryStatus,
	note string,
) (*entities.Delivery, error) {
	now := time.Now().UTC()

	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.lockAssigned(ctx, deliveryID, driverID)
		if err != nil {
			return err
		}

		if err := delivery.UpdateStatus(status, now, nil, note); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}

		if err := s.driverRepository.Release(ctx, driverID, delivery.ID); err != nil {
			return fmt.Errorf("release driver: %w", err)
		}
		if _, err := s.shiftRecorder.RecordDelivery(ctx, driverID, shiftRecord(delivery, false)); err != nil {
			return fmt.Errorf("record delivery in shift: %w", err)
		}

		return s.updateOrder(ctx, delivery, nil)
	})
	if err != nil {
		return nil, err
	}

	return delivery, nil
}

// cancel возвращает водителя, если он был снят с доставки.
func (s *Delivery) cancel(ctx context.Context, delivery *entities.Delivery, reason, cancelledBy string) (*int64, error) {
	driverID := delivery.DriverID

	if err := delivery.Cancel(reason, cancelledBy, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repository.Save(ctx, delivery); err != nil {
		return nil, fmt.Errorf("save delivery: %w", err)
	}

	if driverID != nil {
		if err := s.driverRepository.Release(ctx, *driverID, delivery.ID); err != nil {
			return nil, fmt.Errorf("release driver: %w", err)
		}
		if _, err := s.shiftRecorder.RecordDelivery(ctx, *driverID, shiftRecord(delivery, false)); err != nil {
			return nil, fmt.Errorf("record delivery in shift: %w", err)
		}
	}

	if err := s.updateOrder(ctx, delivery, nil); err != nil {
		return nil, err
	}
	return driverID, nil
}

func (s *Delivery) lockAssigned(ctx context.Context, deliveryID, driverID int64) (*entities.Delivery, error) {
	delivery, err := s.repository.GetByIDForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if !delivery.IsAssignedTo(driverID) {
		return nil, ErrNotYourDelivery
	}
	return delivery, nil
}

func (s *Delivery) updateOrder(ctx context.Context, delivery *entities.Delivery, driver *entities.OrderDriverInfo) error {
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

func (s *Delivery) notifyCancelled(ctx context.Context, delivery *entities.Delivery, driverID *int64) {
	if driverID == nil {
		return
	}
	s.notifier.Notify(ctx, entities.Notification{
		Type:          entities.NotificationDeliveryCancelled,
		RecipientType: entities.RecipientDriver,
		RecipientID:   *driverID,
		DeliveryID:    &delivery.ID,
		OrderID:       &delivery.OrderID,
		Payload: map[string]any{
			"delivery_number": delivery.DeliveryNumber,
			"reason":          delivery.Cancellation.Reason,
		},
		CreatedAt: time.Now().UTC(),
	})
}

func shiftRecord(delivery *entities.Delivery, completed bool) entities.ShiftDeliveryRecord {
	distance := delivery.ActualDistanceKm
	if distance <= 0 {
		distance = delivery.EstimatedDistanceKm
	}
	rec := entities.ShiftDeliveryRecord{
		DeliveryID:      delivery.ID,
		Completed:       completed,
		DistanceKm:      distance,
		DurationMinutes: delivery.ActualDurationMin,
	}
	// За отмененную или проваленную доставку водителю ничего не начисляется.
	if completed {
		rec.Earnings = delivery.Earnings
	}
	return rec
}
