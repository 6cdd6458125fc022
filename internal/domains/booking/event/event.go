package event

import (
	"context"
	"time"

	"tablebook/config"
	"tablebook/infras/kafka"
	"tablebook/infras/otel"
	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/shared/constant"
	"tablebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	TypeCreated = "booking.created"
	TypeUpdated = "booking.updated"
	TypeDeleted = "booking.deleted"
)

// Payload is the JSON body of a booking event.
type Payload struct {
	Type       string              `json:"type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Actor      string              `json:"actor"`
	Booking    dto.BookingResponse `json:"booking"`
}

// Publisher emits booking lifecycle events. Publishing happens in the
// background and failures are only logged.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking model.Booking)
}

type publisherImpl struct {
	producer kafka.Producer
	topic    string
	otel     otel.Otel
}

func New(producer kafka.Producer, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		producer: producer,
		topic:    cfg.Kafka.BookingTopic,
		otel:     otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, eventType string, booking model.Booking) {
	payload := Payload{
		Type:       eventType,
		OccurredAt: timezone.Now(),
		Actor:      booking.ModifiedBy,
	}
	payload.Booking.FromModel(booking)

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		// Keyed by table so every event of a slot lands on one partition.
		err := p.producer.Publish(c, p.topic, kafka.Message{Key: booking.TableID, Value: payload})
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("type", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}
