package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/fjod/apna-store/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded order event.
type Handler func(ctx context.Context, event OrderEvent) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads order events from Kafka and hands them to a Handler.
type Consumer struct {
	reader  messageReader
	handler Handler
	log     *slog.Logger
}

func NewConsumer(handler Handler, log *slog.Logger, groupID string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    TopicOrders,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(reader, handler, log)
}

func newConsumer(reader messageReader, handler Handler, log *slog.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, log: logger.OrDefault(log).With("component", "order-events")}
}

// Run consumes until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !c.processMessage(ctx) {
			return
		}
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error("error closing kafka reader", "error", err)
	}
}

// processMessage reports false once the reader can deliver nothing more.
func (c *Consumer) processMessage(ctx context.Context) bool {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			return false
		}
		c.log.ErrorContext(ctx, "error reading message", "error", err)
		return true
	}

	var event OrderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.log.WarnContext(ctx, "skipping malformed order event", "offset", m.Offset, "error", err)
		return true
	}

	if err := c.handler(ctx, event); err != nil {
		c.log.ErrorContext(ctx, "order event handler failed",
			"event_id", event.EventID,
			"type", event.Type,
			"order_id", event.OrderID,
			"error", err)
	}
	return true
}

// AuditLog returns a Handler that records every order event in log.
func AuditLog(log *slog.Logger) Handler {
	return func(ctx context.Context, event OrderEvent) error {
		log.InfoContext(ctx, "order event",
			"event_id", event.EventID,
			"type", event.Type,
			"order_id", event.OrderID,
			"status", event.Status,
			"total_amount", event.TotalAmount,
			"item_count", event.ItemCount)
		return nil
	}
}
