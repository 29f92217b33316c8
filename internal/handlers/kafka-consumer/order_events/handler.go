package order_events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/entities"
	orderservice "dispatch/internal/service/order"
	"dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

const (
	resultProcessed = "processed"
	resultSkipped   = "skipped"
	resultFailed    = "failed"
	resultBad       = "bad_message"
)

type Handler struct {
	orderService             Service
	metrics                  Metrics
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, orderService Service, metrics Metrics, timeout time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order.events"))

	return &Handler{
		orderService:             orderService,
		metrics:                  metrics,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// ребалансировка или остановка consumer group
			h.log.Info("session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение.
// true прерывает ConsumeClaim без коммита офсета: сообщение будет прочитано повторно.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var raw orderEvent
	if err := json.Unmarshal(message.Value, &raw); err != nil {
		h.log.Error("received bad message",
			logger.Err(err),
			logger.NewField("offset", message.Offset),
		)
		h.metrics.OrderEventProcessed("", resultBad)
		sess.MarkMessage(message, "")
		return false
	}
	event := raw.toEntity()

	msgLog := h.log.With(
		logger.NewField("order", event.OrderID),
		logger.NewField("event", event.Type.String()),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Debug("processing")

	order, err := h.orderService.ProcessOrderEvent(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.Warn("context cancelled, message will be reprocessed", logger.Err(err))
			return true

		case errors.Is(err, orderservice.ErrInvalidEvent):
			msgLog.Error("received invalid event", logger.Err(err))
			h.metrics.OrderEventProcessed(event.Type.String(), resultBad)

		case errors.Is(err, orderservice.ErrStatusMismatch),
			errors.Is(err, orderservice.ErrUndefinedStatus),
			errors.Is(err, entities.ErrNotFound):
			msgLog.Warn("event skipped", logger.Err(err))
			h.metrics.OrderEventProcessed(event.Type.String(), resultSkipped)

		default:
			msgLog.Error("failed to process order event", logger.Err(err))
			h.metrics.OrderEventProcessed(event.Type.String(), resultFailed)
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("processed", logger.NewField("order_status", order.Status.String()))
	h.metrics.OrderEventProcessed(event.Type.String(), resultProcessed)

	sess.MarkMessage(message, "")
	return false
}
