package shift

import (
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrShiftNotFound      = fmt.Errorf("active shift %w", entities.ErrNotFound)
	ErrShiftAlreadyActive = fmt.Errorf("%w: driver already has an active shift", entities.ErrInvalidState)
	ErrDeliveryInProgress = fmt.Errorf("%w: driver has a delivery in progress", entities.ErrInvalidState)
	ErrDriverNotVerified  = fmt.Errorf("%w: driver is not verified", entities.ErrInvalidState)
	ErrInvalidEndReason   = fmt.Errorf("%w: invalid shift end reason", entities.ErrValidation)
	ErrInvalidGoals       = fmt.Errorf("%w: shift goals must not be negative", entities.ErrValidation)
)
