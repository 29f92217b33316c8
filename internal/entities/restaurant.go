package entities

import "time"

type Restaurant struct {
	ID        int64
	Name      string
	Address   Address
	Phone     string
	CreatedAt time.Time
}

// PickupAddress адрес забора заказа. Координаты обязательны для автоназначения.
func (r *Restaurant) PickupAddress() Address {
	addr := r.Address
	if r.Address.Coordinates != nil {
		c := *r.Address.Coordinates
		addr.Coordinates = &c
	}
	return addr
}
