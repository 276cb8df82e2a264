package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/config"
)

func brokers(t *testing.T) []string {
	t.Helper()
	b := config.CSV(os.Getenv("KAFKA_BROKERS"))
	if len(b) == 0 {
		t.Skip("KAFKA_BROKERS not set")
	}
	return b
}

func ensureTopics(t *testing.T, broker string, topics ...string) {
	t.Helper()

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	admin, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer admin.Close()

	var cfgs []kafka.TopicConfig
	for _, tp := range topics {
		cfgs = append(cfgs, kafka.TopicConfig{
			Topic:             tp,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}

	err = admin.CreateTopics(cfgs...)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		require.NoError(t, err)
	}
}

func consumeNextEvent(t *testing.T, broker, topic string, produce func()) map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	conn, err := kafka.DialLeader(ctx, "tcp", broker, topic, 0)
	require.NoError(t, err)
	end, err := conn.ReadLastOffset()
	require.NoError(t, err)
	_ = conn.Close()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()
	require.NoError(t, r.SetOffset(end))

	produce()

	m, err := r.ReadMessage(ctx)
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &event))
	return event
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestProducer_PublishEvent(t *testing.T) {
	b := brokers(t)
	const topic = "order_events"
	ensureTopics(t, b[0], topic)

	p, err := NewProducer(b)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	event := consumeNextEvent(t, b[0], topic, func() {
		require.NoError(t, p.PublishEvent(context.Background(), topic, "order-1", map[string]any{
			"type":    "order_created",
			"orderID": "order-1",
		}))
	})
	assert.Equal(t, "order_created", event["type"])
	assert.Equal(t, "order-1", event["orderID"])
}
