package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const (
	serviceName = "kafka-notifications"
	methodSend  = "SendMessage"
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 500 * time.Millisecond
	maxElapsedTime  = 1 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
)

// Gateway публикует уведомления в топик. Доставка не подтверждается:
// ошибка публикации пишется в лог и метрики, но вызывающему не возвращается.
type Gateway struct {
	log      gatewayLogger
	producer producer
	retrier  retrier
	metrics  Metrics
	topic    string
	now      func() time.Time
}

func New(log gatewayLogger, producer producer, metrics Metrics, topic string) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryable,
	}

	return NewWithRetrier(log, producer, backoff_adapter.New(retryConfig), metrics, topic)
}

func NewWithRetrier(log gatewayLogger, producer producer, retrier retrier, metrics Metrics, topic string) *Gateway {
	return &Gateway{
		log:      log.With(logger.NewField("topic", topic)),
		producer: producer,
		retrier:  retrier,
		metrics:  metrics,
		topic:    topic,
		now:      time.Now,
	}
}

func (g *Gateway) Notify(ctx context.Context, n entities.Notification) {
	msgLog := g.log.With(
		logger.NewField("type", n.Type.String()),
		logger.NewField("recipient_type", string(n.RecipientType)),
		logger.NewField("recipient_id", n.RecipientID),
	)

	value, err := json.Marshal(toMessage(uuid.NewString(), n, g.now()))
	if err != nil {
		g.metrics.NotificationFailed(n.Type.String())
		msgLog.Warn("notification marshal failed", logger.Err(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: g.topic,
		Key:   sarama.StringEncoder(partitionKey(n)),
		Value: sarama.ByteEncoder(value),
	}

	var partition int32
	var offset int64
	err = g.executeWithMetrics(ctx, methodSend, func(context.Context) error {
		var err error
		partition, offset, err = g.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		g.metrics.NotificationFailed(n.Type.String())
		msgLog.Warn("notification not delivered", logger.Err(err))
		return
	}

	g.metrics.NotificationSent(n.Type.String())
	msgLog.Debug("notification published",
		logger.NewField("partition", partition),
		logger.NewField("offset", offset),
	)
}

// isRetryable временные ошибки брокера, после которых есть смысл повторить.
func isRetryable(err error) bool {
	var kerr sarama.KError
	if errors.As(err, &kerr) {
		switch kerr {
		case sarama.ErrNotEnoughReplicas,
			sarama.ErrNotEnoughReplicasAfterAppend,
			sarama.ErrLeaderNotAvailable,
			sarama.ErrNotLeaderForPartition,
			sarama.ErrRequestTimedOut,
			sarama.ErrNetworkException:
			return true
		default:
			return false
		}
	}
	return errors.Is(err, sarama.ErrOutOfBrokers)
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	result := resultLabel(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, result).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, result).Inc()
	}

	if err != nil {
		return fmt.Errorf("gateway notification, %s after %d attempts: %w", method, attempt, err)
	}
	return nil
}

func resultLabel(err error) string {
	if err == nil {
		return "OK"
	}
	var kerr sarama.KError
	if errors.As(err, &kerr) {
		return kerr.Error()
	}
	return "UNKNOWN"
}
