package delivery

import (
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrDeliveryNotFound = fmt.Errorf("delivery %w", entities.ErrNotFound)
	ErrDeliveryExists   = fmt.Errorf("%w: delivery for this order already exists", entities.ErrInvalidState)
	ErrNotYourDelivery  = fmt.Errorf("%w: delivery is not assigned to this driver", entities.ErrInvalidState)
	ErrDeliveryFinished = fmt.Errorf("%w: delivery is already finished", entities.ErrInvalidState)

	ErrInvalidDeliveryID = fmt.Errorf("%w: invalid delivery id", entities.ErrValidation)
	ErrStatusNotAllowed  = fmt.Errorf("%w: status can not be set directly", entities.ErrValidation)
	ErrInvalidProof      = fmt.Errorf("%w: invalid proof of delivery", entities.ErrValidation)
	ErrInvalidOTP        = fmt.Errorf("%w: otp code does not match", entities.ErrValidation)
	ErrInvalidIssueType  = fmt.Errorf("%w: invalid issue type", entities.ErrValidation)
	ErrInvalidSender     = fmt.Errorf("%w: invalid chat sender", entities.ErrValidation)
	ErrMissingReason     = fmt.Errorf("%w: reason is required", entities.ErrValidation)
)
