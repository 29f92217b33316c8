package order

import (
	"errors"
	"fmt"

	"dispatch/internal/entities"
)

var (
	ErrStatusMismatch  = errors.New("order status mismatch between event and orders table")
	ErrUndefinedStatus = errors.New("undefined order event type")
	ErrInvalidEvent    = fmt.Errorf("%w: order id and event type are required", entities.ErrValidation)

	ErrOrderNotFound      = fmt.Errorf("order %w", entities.ErrNotFound)
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", entities.ErrNotFound)
)
