package driver

import (
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrMissingRequiredFields = fmt.Errorf("%w: missing required fields", entities.ErrValidation)
	ErrInvalidDriverID       = fmt.Errorf("%w: invalid driver id", entities.ErrValidation)
	ErrInvalidName           = fmt.Errorf("%w: invalid name", entities.ErrValidation)
	ErrInvalidStatus         = fmt.Errorf("%w: invalid status", entities.ErrValidation)
	ErrInvalidPhone          = fmt.Errorf("%w: invalid phone", entities.ErrValidation)
	ErrInvalidVehicle        = fmt.Errorf("%w: invalid vehicle type", entities.ErrValidation)
	ErrInvalidBankAccount    = fmt.Errorf("%w: invalid bank account", entities.ErrValidation)

	ErrDriverNotFound      = fmt.Errorf("driver %w", entities.ErrNotFound)
	ErrConflict            = fmt.Errorf("%w: driver with this phone already exists", entities.ErrInvalidState)
	ErrDriverUnavailable   = fmt.Errorf("driver %w", entities.ErrUnavailable)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", entities.ErrInvalidState)
)
