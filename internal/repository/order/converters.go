package order

import (
	"encoding/json"
	"fmt"

	"dispatch/internal/entities"
)

func ToDomain(o *OrderDB) (*entities.Order, error) {
	if o == nil {
		return nil, nil
	}

	order := &entities.Order{
		ID:                   o.ID,
		RestaurantID:         o.RestaurantID,
		FulfillmentType:      entities.FulfillmentType(o.FulfillmentType),
		Status:               entities.OrderStatusType(o.Status),
		DeliveryInstructions: o.DeliveryInstructions,
		DeliveryID:           o.DeliveryID,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
	if o.DeliveryStatus != nil {
		status := entities.DeliveryStatus(*o.DeliveryStatus)
		order.DeliveryStatus = &status
	}
	if len(o.DeliveryAddress) > 0 {
		if err := json.Unmarshal(o.DeliveryAddress, &order.DeliveryAddress); err != nil {
			return nil, fmt.Errorf("decode delivery address: %w", err)
		}
	}
	if len(o.DriverInfo) > 0 {
		if err := json.Unmarshal(o.DriverInfo, &order.Driver); err != nil {
			return nil, fmt.Errorf("decode driver info: %w", err)
		}
	}

	return order, nil
}

// DriverInfoToDB nil снимает водителя с заказа (SQL NULL).
func DriverInfoToDB(info *entities.OrderDriverInfo) ([]byte, error) {
	if info == nil {
		return nil, nil
	}
	return json.Marshal(info)
}
