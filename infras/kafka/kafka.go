package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writerBatchTimeout = 50 * time.Millisecond
	otelAttrTopic      = "kafka.topic"
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage(topic string) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Producer publishes JSON encoded messages.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type producerImpl struct {
	writer *kafkaGo.Writer
	otel   otel.Otel
}

// New returns a producer for the configured brokers, or a producer that
// drops every message when Kafka is disabled.
func New(config *config.Config, otel otel.Otel) Producer {
	if !config.Kafka.Enable || len(config.Kafka.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, domain events will not be published")

		return &noopProducer{}
	}

	transport := &kafkaGo.Transport{}
	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              transport,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireOne,
		BatchTimeout:           writerBatchTimeout,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka producer initialized")

	return &producerImpl{
		writer: writer,
		otel:   otel,
	}
}

func (k *producerImpl) Publish(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrTopic, topic)

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(topic)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *producerImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type noopProducer struct{}

func (noopProducer) Publish(_ context.Context, topic string, messages ...Message) error {
	log.Debug().Str("topic", topic).Int("count", len(messages)).Msg("Kafka disabled, message dropped.")

	return nil
}

func (noopProducer) Close() error { return nil }
