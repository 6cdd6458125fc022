package kafka_test

import (
	"context"
	"testing"

	"tablebook/config"
	"tablebook/infras/kafka"
	"tablebook/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageToKafkaMessage(t *testing.T) {
	message := kafka.Message{
		Key:   "table-1",
		Value: map[string]any{"event": "booking.created"},
	}

	msg, err := message.ToKafkaMessage("booking-events")
	require.NoError(t, err)

	assert.Equal(t, "booking-events", msg.Topic)
	assert.Equal(t, []byte("table-1"), msg.Key)
	assert.JSONEq(t, `{"event":"booking.created"}`, string(msg.Value))
}

func TestMessageToKafkaMessageUnsupportedValue(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage("booking-events")
	assert.Error(t, err)
}

func TestNewDisabledProducerDropsMessages(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = false

	producer := kafka.New(cfg, mocks.NewOtel())

	err := producer.Publish(context.Background(), "booking-events", kafka.Message{Key: "k", Value: "v"})
	assert.NoError(t, err)
	assert.NoError(t, producer.Close())
}
