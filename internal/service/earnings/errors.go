package earnings

import (
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrPayoutNotFound = fmt.Errorf("payout %w", entities.ErrNotFound)
	ErrPayoutExists   = fmt.Errorf("%w: payout for this period already exists", entities.ErrInvalidState)

	ErrInvalidPeriod       = fmt.Errorf("%w: invalid earnings period", entities.ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive", entities.ErrValidation)
	ErrInvalidAdjustment   = fmt.Errorf("%w: adjustment amount must not be zero", entities.ErrValidation)
	ErrInvalidInterval     = fmt.Errorf("%w: interval start must be before end", entities.ErrValidation)
	ErrMissingReason       = fmt.Errorf("%w: reason is required", entities.ErrValidation)
	ErrInvalidPayoutAction = fmt.Errorf("%w: unknown payout action", entities.ErrValidation)
	ErrInvalidCalculation  = fmt.Errorf("%w: calculation inputs must not be negative", entities.ErrValidation)
	ErrAmountBelowFee      = fmt.Errorf("%w: amount does not cover instant payout fee", entities.ErrValidation)
	ErrTipNotAllowed       = fmt.Errorf("%w: tip is allowed only for delivered deliveries", entities.ErrInvalidState)
)
