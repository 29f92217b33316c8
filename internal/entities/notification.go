package entities

import "time"

type NotificationType string

const (
	NotificationDeliveryAssigned  NotificationType = "delivery_assigned"
	NotificationDeliveryAccepted  NotificationType = "delivery_accepted"
	NotificationDeliveryCompleted NotificationType = "delivery_completed"
	NotificationDeliveryCancelled NotificationType = "delivery_cancelled"
	NotificationPayoutCreated     NotificationType = "payout_created"
)

func (t NotificationType) String() string {
	return string(t)
}

type RecipientType string

const (
	RecipientDriver   RecipientType = "driver"
	RecipientCustomer RecipientType = "customer"
)

// Notification уходит получателю без подтверждения доставки.
type Notification struct {
	Type          NotificationType
	RecipientType RecipientType
	RecipientID   int64
	DeliveryID    *int64
	OrderID       *int64
	Payload       map[string]any
	CreatedAt     time.Time
}

// BatchResult итог пакетной операции. Ошибки отдельных записей
// не прерывают обработку остальных.
type BatchResult struct {
	Processed int
	Created   int
	Skipped   int
	Failed    int
	Errors    []error
}

func (r *BatchResult) Fail(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err)
}
