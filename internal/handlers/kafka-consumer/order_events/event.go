package order_events

import "dispatch/internal/entities"

// orderEvent сообщение топика заказов.
type orderEvent struct {
	OrderID int64  `json:"order_id"`
	Event   string `json:"event"`
	Reason  string `json:"reason,omitempty"`
}

func (e orderEvent) toEntity() entities.OrderEvent {
	return entities.OrderEvent{
		OrderID: e.OrderID,
		Type:    entities.OrderEventType(e.Event),
		Reason:  e.Reason,
	}
}
