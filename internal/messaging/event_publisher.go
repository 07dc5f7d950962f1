package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"gocloud.dev/pubsub"

	"github.com/andeanhealth/appointments/internal/appointment/usecase"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// PubSubEventPublisher publishes appointment creation events. The routing
// attributes travel as message metadata so SNS filter policies (or the
// consumer-side guard on mem://) can route by country without reading the body.
type PubSubEventPublisher struct {
	topic  *pubsub.Topic
	logger *slog.Logger
}

// NewPubSubEventPublisher creates a new PubSubEventPublisher bound to an open topic.
func NewPubSubEventPublisher(topic *pubsub.Topic, logger *slog.Logger) *PubSubEventPublisher {
	return &PubSubEventPublisher{
		topic:  topic,
		logger: logger,
	}
}

// Publish sends the creation event as a JSON body with the attributes as
// message metadata. The topic argument is the logical topic name carried for
// logging; the physical destination is fixed at construction.
func (p *PubSubEventPublisher) Publish(
	ctx context.Context,
	topic string,
	event usecase.CreationEvent,
	attributes map[string]string,
) error {
	body, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal creation event")
	}

	message := &pubsub.Message{
		Body:     body,
		Metadata: attributes,
	}
	if err := p.topic.Send(ctx, message); err != nil {
		return apperrors.Wrap(err, "failed to send creation event")
	}

	p.logger.Debug("creation event published",
		slog.String("topic", topic),
		slog.String("appointment_id", event.AppointmentID.String()),
		slog.String("country_iso", string(event.CountryISO)),
	)

	return nil
}
