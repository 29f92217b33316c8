package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch бизнес-метрики назначения, выплат и уведомлений.
type Dispatch struct {
	assignments          *prometheus.CounterVec
	assignmentAttempts   prometheus.Histogram
	payouts              *prometheus.CounterVec
	payoutAmount         *prometheus.CounterVec
	notificationsFailed  *prometheus.CounterVec
	notificationsSent    *prometheus.CounterVec
	orderEventsProcessed *prometheus.CounterVec
}

func NewDispatch(reg prometheus.Registerer) *Dispatch {
	factory := promauto.With(reg)

	return &Dispatch{
		assignments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_assignments_total",
				Help: "Assignment outcomes: assigned, no_driver, exhausted, rejected, expired",
			},
			[]string{"outcome"},
		),
		assignmentAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dispatch_assignment_attempts",
				Help:    "Attempts a delivery needed before the outcome was recorded",
				Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
			},
		),
		payouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_payouts_created_total",
				Help: "Payouts created by type",
			},
			[]string{"type"},
		),
		payoutAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_payouts_gross_amount_total",
				Help: "Sum of gross payout amounts by type",
			},
			[]string{"type"},
		),
		notificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_notifications_failed_total",
				Help: "Notifications that could not be published",
			},
			[]string{"type"},
		),
		notificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_notifications_sent_total",
				Help: "Notifications published to the broker",
			},
			[]string{"type"},
		),
		orderEventsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_order_events_processed_total",
				Help: "Order events handled by the consumer",
			},
			[]string{"type", "result"},
		),
	}
}

func (d *Dispatch) ObserveAssignment(outcome string, attempts int) {
	d.assignments.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		d.assignmentAttempts.Observe(float64(attempts))
	}
}

func (d *Dispatch) ObservePayout(payoutType string, amount float64) {
	d.payouts.WithLabelValues(payoutType).Inc()
	if amount > 0 {
		d.payoutAmount.WithLabelValues(payoutType).Add(amount)
	}
}

func (d *Dispatch) NotificationSent(notificationType string) {
	d.notificationsSent.WithLabelValues(notificationType).Inc()
}

func (d *Dispatch) NotificationFailed(notificationType string) {
	d.notificationsFailed.WithLabelValues(notificationType).Inc()
}

func (d *Dispatch) OrderEventProcessed(eventType, result string) {
	d.orderEventsProcessed.WithLabelValues(eventType, result).Inc()
}
