package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
)

type Shift struct {
	repository       Repository
	driverRepository DriverRepository
	txManager        TxManager
}

func New(repository Repository, driverRepository DriverRepository, txManager TxManager) *Shift {
	return &Shift{
		repository:       repository,
		driverRepository: driverRepository,
		txManager:        txManager,
	}
}

// StartShift открывает смену и выводит водителя на линию. Вторую активную
// смену не пропускает уникальный индекс.
func (s *Shift) StartShift(
	ctx context.Context,
	driverID int64,
	location *entities.Coordinates,
	goals *entities.ShiftGoals,
) (*entities.DriverShift, error) {
	if !isValidLocation(location) {
		return nil, entities.ErrInvalidCoordinates
	}
	if goals != nil && !isValidGoals(goals) {
		return nil, ErrInvalidGoals
	}

	now := time.Now().UTC()

	var started *entities.DriverShift
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		driver, err := s.driverRepository.GetByIDForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}
		if driver.Status != entities.DriverVerified {
			return ErrDriverNotVerified
		}

		started, err = s.repository.Create(ctx, entities.NewShift(driverID, now, location, goals))
		if err != nil {
			return fmt.Errorf("create shift: %w", err)
		}

		online := entities.ShiftOnline
		available := true
		modify := entities.DriverModify{
			ID:          &driverID,
			ShiftStatus: &online,
			IsAvailable: &available,
		}
		if location != nil {
			modify.Location = &entities.Location{Lat: location.Lat, Lng: location.Lng, UpdatedAt: now}
		}

		if _, err := s.driverRepository.Update(ctx, modify); err != nil {
			return fmt.Errorf("update driver: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return started, nil
}

func (s *Shift) StartBreak(ctx context.Context, driverID int64, reason string) (*entities.DriverShift, error) {
	now := time.Now().UTC()

	var shift *entities.DriverShift
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		shift, err = s.repository.GetActiveForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get active shift: %w", err)
		}

		driver, err := s.driverRepository.GetByIDForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}
		if driver.CurrentDeliveryID != nil {
			return ErrDeliveryInProgress
		}

		if err := shift.StartBreak(now, reason); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}

		return s.setDriverState(ctx, driverID, entities.ShiftOnBreak, false)
	})
	if err != nil {
		return nil, err
	}

	return shift, nil
}

func (s *Shift) EndBreak(ctx context.Context, driverID int64) (*entities.DriverShift, error) {
	now := time.Now().UTC()

	var shift *entities.DriverShift
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		shift, err = s.repository.GetActiveForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get active shift: %w", err)
		}

		if _, err := shift.EndBreak(now); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}

		return s.setDriverState(ctx, driverID, entities.ShiftOnline, true)
	})
	if err != nil {
		return nil, err
	}

	return shift, nil
}

// EndShift закрывает смену. С незавершенной доставкой уйти со смены нельзя.
func (s *Shift) EndShift(
	ctx context.Context,
	driverID int64,
	reason entities.ShiftEndReason,
	location *entities.Coordinates,
) (*entities.DriverShift, error) {
	if reason == "" {
		reason = entities.ShiftEndManual
	}
	if !reason.Valid() {
		return nil, ErrInvalidEndReason
	}
	if !isValidLocation(location) {
		return nil, entities.ErrInvalidCoordinates
	}

	now := time.Now().UTC()

	var shift *entities.DriverShift
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		shift, err = s.repository.GetActiveForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get active shift: %w", err)
		}

		driver, err := s.driverRepository.GetByIDForUpdate(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}
		if driver.CurrentDeliveryID != nil {
			return ErrDeliveryInProgress
		}

		if err := shift.End(now, reason, location); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}

		return s.setDriverState(ctx, driverID, entities.ShiftOffline, false)
	})
	if err != nil {
		return nil, err
	}

	return shift, nil
}

func (s *Shift) GetActiveShift(ctx context.Context, driverID int64) (*entities.DriverShift, error) {
	shift, err := s.repository.GetActive(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("get active shift: %w", err)
	}
	return shift, nil
}

// UpdateLocation обновляет позицию водителя и трек активной смены.
// Возвращает водителя, чтобы вызывающий мог обновить трек текущей доставки.
func (s *Shift) UpdateLocation(ctx context.Context, driverID int64, location entities.Coordinates) (*entities.Driver, error) {
	if !location.Valid() {
		return nil, entities.ErrInvalidCoordinates
	}

	now := time.Now().UTC()

	var driver *entities.Driver
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		driver, err = s.driverRepository.GetByID(ctx, driverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}

		current := entities.Location{Lat: location.Lat, Lng: location.Lng, UpdatedAt: now}
		if err := s.driverRepository.UpdateLocation(ctx, driverID, current); err != nil {
			return fmt.Errorf("update driver location: %w", err)
		}
		driver.Location = &current

		shift, err := s.repository.GetActiveForUpdate(ctx, driverID)
		if err != nil {
			// вне смены трек не пишется
			if errors.Is(err, ErrShiftNotFound) {
				return nil
			}
			return fmt.Errorf("get active shift: %w", err)
		}

		shift.AddLocationSnapshot(location.Lat, location.Lng, now)
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return driver, nil
}

// RecordDelivery учитывает итог доставки в активной смене водителя.
// Вызывается внутри транзакции завершения или отмены доставки.
func (s *Shift) RecordDelivery(ctx context.Context, driverID int64, rec entities.ShiftDeliveryRecord) (bool, error) {
	var recorded bool
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		shift, err := s.repository.GetActiveForUpdate(ctx, driverID)
		if err != nil {
			if errors.Is(err, ErrShiftNotFound) {
				return nil
			}
			return fmt.Errorf("get active shift: %w", err)
		}

		if !shift.AddDelivery(rec) {
			return nil
		}
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}

		recorded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return recorded, nil
}

// CloseStaleShifts закрывает смены длиннее maxDuration с причиной
// auto_timeout. Ошибка одной смены не останавливает остальные.
func (s *Shift) CloseStaleShifts(ctx context.Context, maxDuration time.Duration, limit uint64) (*entities.BatchResult, error) {
	now := time.Now().UTC()

	stale, err := s.repository.GetStale(ctx, now.Add(-maxDuration), limit)
	if err != nil {
		return nil, fmt.Errorf("get stale shifts: %w", err)
	}

	result := &entities.BatchResult{}
	for _, candidate := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Processed++

		closed, err := s.closeStaleShift(ctx, candidate, now)
		if err != nil {
			result.Fail(fmt.Errorf("close shift %d: %w", candidate.ID, err))
			continue
		}
		if !closed {
			result.Skipped++
			continue
		}
		result.Created++
	}

	return result, nil
}

func (s *Shift) closeStaleShift(ctx context.Context, candidate entities.DriverShift, now time.Time) (bool, error) {
	var closed bool
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		shift, err := s.repository.GetActiveForUpdate(ctx, candidate.DriverID)
		if err != nil {
			if errors.Is(err, ErrShiftNotFound) {
				return nil
			}
			return fmt.Errorf("get active shift: %w", err)
		}
		// смену уже закрыли и открыли новую
		if shift.ID != candidate.ID {
			return nil
		}

		if err := shift.End(now, entities.ShiftEndAutoTimeout, nil); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, shift); err != nil {
			return fmt.Errorf("save shift: %w", err)
		}

		driver, err := s.driverRepository.GetByIDForUpdate(ctx, candidate.DriverID)
		if err != nil {
			return fmt.Errorf("get driver: %w", err)
		}
		// водитель на доставке доведет ее до конца, статус снимет завершение
		if driver.CurrentDeliveryID == nil {
			if err := s.setDriverState(ctx, candidate.DriverID, entities.ShiftOffline, false); err != nil {
				return err
			}
		}

		closed = true
		return nil
	})
	return closed, err
}

func (s *Shift) setDriverState(ctx context.Context, driverID int64, status entities.ShiftStatus, available bool) error {
	_, err := s.driverRepository.Update(ctx, entities.DriverModify{
		ID:          &driverID,
		ShiftStatus: &status,
		IsAvailable: &available,
	})
	if err != nil {
		return fmt.Errorf("update driver: %w", err)
	}
	return nil
}
