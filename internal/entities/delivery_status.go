package entities

import "fmt"

type DeliveryStatus string

const (
	DeliveryPending            DeliveryStatus = "pending"
	DeliveryAssigned           DeliveryStatus = "assigned"
	DeliveryAccepted           DeliveryStatus = "accepted"
	DeliveryArrivingRestaurant DeliveryStatus = "arriving_restaurant"
	DeliveryAtRestaurant       DeliveryStatus = "at_restaurant"
	DeliveryPickedUp           DeliveryStatus = "picked_up"
	DeliveryInTransit          DeliveryStatus = "in_transit"
	DeliveryArrived            DeliveryStatus = "arrived"
	DeliveryDelivered          DeliveryStatus = "delivered"
	DeliveryFailed             DeliveryStatus = "failed"
	DeliveryCancelled          DeliveryStatus = "cancelled"
	DeliveryReturned           DeliveryStatus = "returned"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

// deliveryTransitions допустимые переходы. Отсутствие статуса в ключах
// означает терминальное состояние.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending: {
		DeliveryAssigned, DeliveryCancelled, DeliveryFailed,
	},
	DeliveryAssigned: {
		DeliveryAccepted, DeliveryPending, DeliveryCancelled, DeliveryFailed,
	},
	DeliveryAccepted: {
		DeliveryArrivingRestaurant, DeliveryAtRestaurant, DeliveryCancelled, DeliveryFailed,
	},
	DeliveryArrivingRestaurant: {
		DeliveryAtRestaurant, DeliveryCancelled, DeliveryFailed,
	},
	DeliveryAtRestaurant: {
		DeliveryPickedUp, DeliveryCancelled, DeliveryFailed,
	},
	DeliveryPickedUp: {
		DeliveryInTransit, DeliveryArrived, DeliveryDelivered, DeliveryFailed, DeliveryReturned,
	},
	DeliveryInTransit: {
		DeliveryArrived, DeliveryDelivered, DeliveryFailed, DeliveryReturned,
	},
	DeliveryArrived: {
		DeliveryDelivered, DeliveryFailed, DeliveryReturned,
	},
	DeliveryFailed: {
		DeliveryReturned,
	},
}

var knownDeliveryStatuses = map[DeliveryStatus]struct{}{
	DeliveryPending: {}, DeliveryAssigned: {}, DeliveryAccepted: {},
	DeliveryArrivingRestaurant: {}, DeliveryAtRestaurant: {}, DeliveryPickedUp: {},
	DeliveryInTransit: {}, DeliveryArrived: {}, DeliveryDelivered: {},
	DeliveryFailed: {}, DeliveryCancelled: {}, DeliveryReturned: {},
}

func (s DeliveryStatus) Valid() bool {
	_, ok := knownDeliveryStatuses[s]
	return ok
}

// IsTerminal после этих статусов доставка больше не меняется
// (failed допускает только возврат).
func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case DeliveryDelivered, DeliveryFailed, DeliveryCancelled, DeliveryReturned:
		return true
	}
	return false
}

// HasDriverOnTheWay водитель физически занят доставкой.
func (s DeliveryStatus) HasDriverOnTheWay() bool {
	switch s {
	case DeliveryAccepted, DeliveryArrivingRestaurant, DeliveryAtRestaurant,
		DeliveryPickedUp, DeliveryInTransit, DeliveryArrived:
		return true
	}
	return false
}

func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition возвращает новый статус либо ErrInvalidTransition.
func Transition(from, to DeliveryStatus) (DeliveryStatus, error) {
	if !to.Valid() {
		return from, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}
