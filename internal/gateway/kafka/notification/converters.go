package notification

import (
	"strconv"
	"time"

	"dispatch/internal/entities"
)

type message struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	RecipientType string         `json:"recipient_type"`
	RecipientID   int64          `json:"recipient_id"`
	DeliveryID    *int64         `json:"delivery_id,omitempty"`
	OrderID       *int64         `json:"order_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toMessage(id string, n entities.Notification, now time.Time) message {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return message{
		ID:            id,
		Type:          n.Type.String(),
		RecipientType: string(n.RecipientType),
		RecipientID:   n.RecipientID,
		DeliveryID:    n.DeliveryID,
		OrderID:       n.OrderID,
		Payload:       n.Payload,
		CreatedAt:     createdAt.UTC(),
	}
}

// partitionKey держит уведомления одного получателя в одной партиции,
// чтобы сохранялся их порядок.
func partitionKey(n entities.Notification) string {
	return string(n.RecipientType) + ":" + strconv.FormatInt(n.RecipientID, 10)
}
