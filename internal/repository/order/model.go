package order

import "time"

type OrderDB struct {
	ID                   int64
	RestaurantID         int64
	FulfillmentType      string
	Status               string
	DeliveryAddress      []byte
	DeliveryInstructions string
	DeliveryID           *int64
	DeliveryStatus       *string
	DriverInfo           []byte
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
