package assignment

import (
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrNotDeliveryOrder     = fmt.Errorf("%w: order is not for delivery", entities.ErrInvalidState)
	ErrDeliveryNotPending   = fmt.Errorf("%w: delivery is not pending", entities.ErrInvalidState)
	ErrNotAssignedToDriver  = fmt.Errorf("%w: delivery is not assigned to this driver", entities.ErrInvalidState)
	ErrAssignmentExpired    = fmt.Errorf("%w: assignment expired", entities.ErrInvalidState)
	ErrMissingCoordinates   = fmt.Errorf("%w: pickup coordinates are missing", entities.ErrInvalidState)
	ErrDriverRejected       = fmt.Errorf("%w: driver already rejected this delivery", entities.ErrInvalidState)
	ErrNoAvailableDrivers   = fmt.Errorf("%w: no available drivers found", entities.ErrUnavailable)
	ErrAttemptsExhausted    = fmt.Errorf("%w: assignment attempts exhausted", entities.ErrUnavailable)
	ErrInvalidRadius        = fmt.Errorf("%w: radius must be positive", entities.ErrValidation)
	ErrInvalidStatsInterval = fmt.Errorf("%w: stats interval start is after end", entities.ErrValidation)
)
