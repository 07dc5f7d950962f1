package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"gocloud.dev/pubsub"

	"github.com/andeanhealth/appointments/internal/appointment/usecase"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// PubSubConfirmationPublisher publishes processing confirmations emitted by
// the country processors.
type PubSubConfirmationPublisher struct {
	topic  *pubsub.Topic
	logger *slog.Logger
}

// NewPubSubConfirmationPublisher creates a new PubSubConfirmationPublisher bound to an open topic.
func NewPubSubConfirmationPublisher(topic *pubsub.Topic, logger *slog.Logger) *PubSubConfirmationPublisher {
	return &PubSubConfirmationPublisher{
		topic:  topic,
		logger: logger,
	}
}

// Publish sends the confirmation event as a JSON body.
func (p *PubSubConfirmationPublisher) Publish(ctx context.Context, event usecase.ConfirmationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal confirmation event")
	}

	if err := p.topic.Send(ctx, &pubsub.Message{Body: body}); err != nil {
		return apperrors.Wrap(err, "failed to send confirmation event")
	}

	p.logger.Debug("confirmation event published",
		slog.String("appointment_id", event.AppointmentID.String()),
		slog.String("status", event.Status),
	)

	return nil
}
