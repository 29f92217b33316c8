package entities

import (
	"errors"
	"fmt"
)

// Классы ошибок. Ошибки сервисов оборачивают один из них,
// транспорт отображает класс в код ответа.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrShiftNotActive     = fmt.Errorf("%w: shift is not active", ErrInvalidState)
	ErrAlreadyOnBreak     = fmt.Errorf("%w: already on break", ErrInvalidState)
	ErrNotOnBreak         = fmt.Errorf("%w: not on break", ErrInvalidState)
	ErrInvalidTransition  = fmt.Errorf("%w: invalid delivery status transition", ErrInvalidState)
	ErrPayoutNotMutable   = fmt.Errorf("%w: payout can not be changed in current status", ErrInvalidState)
	ErrPayoutRetryLimit   = fmt.Errorf("%w: payout retry limit reached", ErrInvalidState)
	ErrAlreadyRated       = fmt.Errorf("%w: delivery already rated", ErrInvalidState)
	ErrEmptyMessage       = fmt.Errorf("%w: empty message", ErrValidation)
	ErrInvalidCoordinates = fmt.Errorf("%w: invalid coordinates", ErrValidation)
	ErrInvalidRating      = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
)
