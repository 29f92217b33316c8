package main

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики
var (
	eventsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traffic_generator_order_events_total",
		Help: "Количество отправленных событий заказов",
	}, []string{"event", "result"})

	sendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "traffic_generator_send_duration_seconds",
		Help:    "Длительность отправки события в секундах",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

type orderEvent struct {
	OrderID int64  `json:"order_id"`
	Event   string `json:"event"`
	Reason  string `json:"reason,omitempty"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func send(producer sarama.SyncProducer, topic string, ev orderEvent) {
	start := time.Now()
	defer func() {
		sendDuration.Observe(time.Since(start).Seconds())
	}()

	value, err := json.Marshal(ev)
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}

	_, _, err = producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.OrderID, 10)),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		eventsCounter.WithLabelValues(ev.Event, "failed").Inc()
		log.Printf("send event for order %d: %v", ev.OrderID, err)
		return
	}
	eventsCounter.WithLabelValues(ev.Event, "sent").Inc()
}

// Шлет ready_for_delivery для заказов из диапазона ORDER_ID_FROM..ORDER_ID_TO,
// часть заказов следом отменяется. Заказы должны уже лежать в таблице orders.
func main() {
	brokers := strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := getenv("KAFKA_TOPIC", "orders.events")

	from, err := strconv.ParseInt(getenv("ORDER_ID_FROM", "1"), 10, 64)
	if err != nil {
		log.Fatalf("ORDER_ID_FROM: %v", err)
	}
	to, err := strconv.ParseInt(getenv("ORDER_ID_TO", "100"), 10, 64)
	if err != nil {
		log.Fatalf("ORDER_ID_TO: %v", err)
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	defer producer.Close()

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":2112", nil) //nolint:errcheck,gosec // локальный генератор

	for id := from; ; id++ {
		if id > to {
			id = from
		}

		send(producer, topic, orderEvent{OrderID: id, Event: "ready_for_delivery"})

		// каждый десятый заказ отменяет клиент
		if rand.IntN(10) == 0 {
			time.Sleep(time.Duration(500+rand.IntN(1500)) * time.Millisecond)
			send(producer, topic, orderEvent{OrderID: id, Event: "cancelled", Reason: "customer request"})
		}

		time.Sleep(time.Duration(200+rand.IntN(800)) * time.Millisecond)
	}
}
