package driver

import (
	"context"
	"fmt"

	"dispatch/internal/entities"
)

// Driver справочник водителей. Доступность и текущую доставку меняют
// смены и назначение, здесь только профиль и администрирование.
type Driver struct {
	repository Repository
}

func New(repository Repository) *Driver {
	return &Driver{
		repository: repository,
	}
}

func (s *Driver) GetDriver(ctx context.Context, id int64) (*entities.Driver, error) {
	if id <= 0 {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}

	return driver, nil
}

func (s *Driver) GetDrivers(ctx context.Context, filter entities.DriverFilter) ([]entities.Driver, error) {
	if filter.Status != nil && !isValidStatus(*filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.ShiftStatus != nil && !isValidShiftStatus(*filter.ShiftStatus) {
		return nil, ErrInvalidStatus
	}
	if filter.Limit == 0 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	drivers, err := s.repository.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get drivers: %w", err)
	}

	return drivers, nil
}

func (s *Driver) UpdateDriver(ctx context.Context, modify entities.DriverModify) (*entities.Driver, error) {
	if modify.ID == nil || *modify.ID <= 0 {
		return nil, ErrInvalidDriverID
	}

	if modify.Name == nil &&
		modify.Phone == nil &&
		modify.Status == nil &&
		modify.VehicleType == nil &&
		modify.RestaurantID == nil &&
		modify.BankAccount == nil {
		return nil, fmt.Errorf("no fields to update: %w", ErrMissingRequiredFields)
	}

	if modify.Name != nil && !isValidName(*modify.Name) {
		return nil, ErrInvalidName
	}
	if modify.Phone != nil && !isValidPhone(*modify.Phone) {
		return nil, ErrInvalidPhone
	}
	if modify.Status != nil && !isValidStatus(*modify.Status) {
		return nil, ErrInvalidStatus
	}
	if modify.VehicleType != nil && !isValidVehicle(*modify.VehicleType) {
		return nil, ErrInvalidVehicle
	}
	if modify.BankAccount != nil && !isValidBankAccount(modify.BankAccount) {
		return nil, ErrInvalidBankAccount
	}

	// доступность водителя управляется сменой и назначением
	modify.ShiftStatus = nil
	modify.IsAvailable = nil
	modify.Location = nil

	driver, err := s.repository.Update(ctx, modify)
	if err != nil {
		return nil, fmt.Errorf("update driver: %w", err)
	}
	return driver, nil
}
