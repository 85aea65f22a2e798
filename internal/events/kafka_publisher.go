package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fjod/apna-store/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events keyed by order id so one order's events stay ordered.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *circuitbreaker.Breaker
	timeout time.Duration
}

func NewKafkaPublisher(log *slog.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrders,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, log)
}

func newKafkaPublisher(w messageWriter, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "kafka-orders",
			MaxFailures: 3,
			OpenTimeout: 30 * time.Second,
			Logger:      log,
		}),
		timeout: 5 * time.Second,
	}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	return p.breaker.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			return fmt.Errorf("publish %s for order %d: %w", event.Type, event.OrderID, err)
		}
		return nil
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
