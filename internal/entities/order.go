package entities

import "time"

// Order заказ из сервиса заказов. Здесь только читается и получает
// обратную связь о доставке.
type Order struct {
	ID                   int64
	RestaurantID         int64
	FulfillmentType      FulfillmentType
	Status               OrderStatusType
	DeliveryAddress      *Address
	DeliveryInstructions string
	DeliveryID           *int64
	DeliveryStatus       *DeliveryStatus
	Driver               *OrderDriverInfo
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
	FulfillmentDineIn   FulfillmentType = "dine_in"
	FulfillmentRoom     FulfillmentType = "room_service"
)

func (t FulfillmentType) String() string {
	return string(t)
}

type OrderStatusType string

const (
	OrderCreated          OrderStatusType = "created"
	OrderReadyForDelivery OrderStatusType = "ready_for_delivery"
	OrderCancelled        OrderStatusType = "cancelled"
	OrderCompleted        OrderStatusType = "completed"
)

func (s OrderStatusType) String() string {
	return string(s)
}

// OrderDriverInfo снимок водителя, который видит клиент в заказе.
type OrderDriverInfo struct {
	DriverID    int64        `json:"driver_id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	VehicleType VehicleType  `json:"vehicle_type"`
	Location    *Coordinates `json:"location,omitempty"`
}

func NewOrderDriverInfo(d *Driver) *OrderDriverInfo {
	info := &OrderDriverInfo{
		DriverID:    d.ID,
		Name:        d.Name,
		Phone:       d.Phone,
		VehicleType: d.VehicleType,
	}
	if d.Location != nil {
		c := d.Location.Coordinates()
		info.Location = &c
	}
	return info
}

// OrderDeliveryUpdate обратный вызов в заказ при изменении доставки.
// Driver == nil снимает водителя с заказа.
type OrderDeliveryUpdate struct {
	OrderID    int64
	DeliveryID int64
	Status     DeliveryStatus
	Driver     *OrderDriverInfo
}

type OrderEventType string

const (
	OrderEventReadyForDelivery OrderEventType = "ready_for_delivery"
	OrderEventCancelled        OrderEventType = "cancelled"
)

func (t OrderEventType) String() string {
	return string(t)
}

// OrderEvent событие из топика заказов.
type OrderEvent struct {
	OrderID int64
	Type    OrderEventType
	Reason  string
}
