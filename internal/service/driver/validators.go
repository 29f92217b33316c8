package driver

import (
	"strings"

	"dispatch/internal/entities"
)

const maxPageSize = 100

func isValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func isValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") || len(phone) < 2 {
		return false
	}

	for _, char := range phone[1:] {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

func isValidStatus(status entities.DriverStatus) bool {
	switch status {
	case entities.DriverPending, entities.DriverVerified, entities.DriverSuspended:
		return true
	default:
		return false
	}
}

func isValidShiftStatus(status entities.ShiftStatus) bool {
	switch status {
	case entities.ShiftOffline, entities.ShiftOnline, entities.ShiftOnBreak, entities.ShiftOnDelivery:
		return true
	default:
		return false
	}
}

func isValidVehicle(vehicle entities.VehicleType) bool {
	switch vehicle {
	case entities.Motorcycle, entities.Scooter, entities.Car, entities.Bicycle:
		return true
	default:
		return false
	}
}

func isValidBankAccount(account *entities.BankAccount) bool {
	return strings.TrimSpace(account.HolderName) != "" &&
		strings.TrimSpace(account.BankName) != "" &&
		strings.TrimSpace(account.AccountNumber) != ""
}
