package driver

import (
	"encoding/json"
	"fmt"

	"dispatch/internal/entities"
)

func ToDomain(d *DriverDB) (*entities.Driver, error) {
	if d == nil {
		return nil, nil
	}

	driver := &entities.Driver{
		ID:                d.ID,
		Name:              d.Name,
		Phone:             d.Phone,
		Status:            entities.DriverStatus(d.Status),
		ShiftStatus:       entities.ShiftStatus(d.ShiftStatus),
		IsAvailable:       d.IsAvailable,
		VehicleType:       entities.VehicleType(d.VehicleType),
		RestaurantID:      d.RestaurantID,
		AverageRating:     d.AverageRating,
		CompletionRate:    d.CompletionRate,
		TotalDeliveries:   d.TotalDeliveries,
		CurrentDeliveryID: d.CurrentDeliveryID,
		CurrentBalance:    d.CurrentBalance,
		LifetimeEarnings:  d.LifetimeEarnings,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}

	if d.LocationLat != nil && d.LocationLng != nil {
		loc := &entities.Location{
			Lat: *d.LocationLat,
			Lng: *d.LocationLng,
		}
		if d.LocationUpdatedAt != nil {
			loc.UpdatedAt = *d.LocationUpdatedAt
		}
		driver.Location = loc
	}

	if len(d.BankAccount) > 0 {
		var account entities.BankAccount
		if err := json.Unmarshal(d.BankAccount, &account); err != nil {
			return nil, fmt.Errorf("decode bank account: %w", err)
		}
		driver.BankAccount = &account
	}

	return driver, nil
}

func FromDomainModify(m *entities.DriverModify) (*DriverModifyDB, error) {
	if m == nil {
		return nil, nil
	}
	driverDB := &DriverModifyDB{
		ID:           m.ID,
		Name:         m.Name,
		Phone:        m.Phone,
		IsAvailable:  m.IsAvailable,
		RestaurantID: m.RestaurantID,
	}

	if m.Status != nil {
		status := m.Status.String()
		driverDB.Status = &status
	}
	if m.ShiftStatus != nil {
		shiftStatus := m.ShiftStatus.String()
		driverDB.ShiftStatus = &shiftStatus
	}
	if m.VehicleType != nil {
		vehicleType := m.VehicleType.String()
		driverDB.VehicleType = &vehicleType
	}
	if m.Location != nil {
		driverDB.LocationLat = &m.Location.Lat
		driverDB.LocationLng = &m.Location.Lng
		driverDB.LocationUpdatedAt = &m.Location.UpdatedAt
	}
	if m.BankAccount != nil {
		raw, err := json.Marshal(m.BankAccount)
		if err != nil {
			return nil, fmt.Errorf("encode bank account: %w", err)
		}
		driverDB.BankAccount = raw
	}

	return driverDB, nil
}

func ToDomainList(driversDB []DriverDB) ([]entities.Driver, error) {
	if len(driversDB) == 0 {
		return []entities.Driver{}, nil
	}

	result := make([]entities.Driver, len(driversDB))
	for i := range driversDB {
		driver, err := ToDomain(&driversDB[i])
		if err != nil {
			return nil, err
		}
		result[i] = *driver
	}
	return result, nil
}
