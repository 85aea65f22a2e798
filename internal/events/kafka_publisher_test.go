package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/pkg/circuitbreaker"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type mockWriter struct {
	mu       sync.Mutex
	messages []kafkaGo.Message
	err      error
	calls    int
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func placedOrder() domain.Order {
	return domain.Order{
		ID:          12,
		Status:      domain.OrderStatusPending,
		TotalAmount: 300,
		Items:       []domain.CartLine{{ProductID: 7, Price: 100, Quantity: 3}},
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(TypeOrderPlaced, placedOrder())

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, TypeOrderPlaced, event.Type)
	assert.Equal(t, int64(12), event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, 300.0, event.TotalAmount)
}

func TestPublishOrderEvent_WritesKeyedMessage(t *testing.T) {
	w := &mockWriter{}
	p := newKafkaPublisher(w, nil)

	event := NewOrderEvent(TypeOrderPlaced, placedOrder())
	require.NoError(t, p.PublishOrderEvent(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "12", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderPlaced, string(msg.Headers[0].Value))

	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, domain.OrderStatusPending, decoded.Status)
}

func TestPublishOrderEvent_BreakerOpensOnRepeatedFailures(t *testing.T) {
	w := &mockWriter{err: errors.New("leader not available")}
	p := newKafkaPublisher(w, nil)
	event := NewOrderEvent(TypeOrderPlaced, placedOrder())

	for i := 0; i < 3; i++ {
		assert.ErrorContains(t, p.PublishOrderEvent(context.Background(), event), "leader not available")
	}

	err := p.PublishOrderEvent(context.Background(), event)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, 3, w.calls)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishOrderEvent(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	testcontainers.CleanupContainer(t, kafkaContainer)
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	p := NewKafkaPublisher(nil, brokers...)
	defer p.Close()

	event := NewOrderEvent(TypeOrderPlaced, placedOrder())
	require.Eventually(t, func() bool {
		return p.PublishOrderEvent(ctx, event) == nil
	}, 90*time.Second, 2*time.Second, "event was not published")

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: brokers,
		Topic:   TopicOrders,
	})
	defer reader.Close()

	readCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, int64(12), decoded.OrderID)
}
