// Package consumer contains the subscription receive loops that drive the
// asynchronous appointment pipeline: country-scoped processing of creation
// events and confirmation-driven status updates.
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"gocloud.dev/pubsub"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/appointment/usecase"
)

// CreationConsumer receives appointment creation events for one country and
// feeds them to its processor. Delivery is at least once; the processor side
// is idempotent, so duplicates converge.
type CreationConsumer struct {
	country      domain.CountryISO
	subscription *pubsub.Subscription
	processor    usecase.ProcessUseCase
	logger       *slog.Logger
}

// NewCreationConsumer creates a consumer bound to an open subscription.
func NewCreationConsumer(
	country domain.CountryISO,
	subscription *pubsub.Subscription,
	processor usecase.ProcessUseCase,
	logger *slog.Logger,
) *CreationConsumer {
	return &CreationConsumer{
		country:      country,
		subscription: subscription,
		processor:    processor,
		logger:       logger,
	}
}

// Run receives messages until the context is canceled. Brokers with
// server-side filtering (SNS filter policies on the countryISO attribute)
// deliver only this country's events; on brokers without it the attribute
// guard here drops foreign events with an ack so they are not redelivered.
func (c *CreationConsumer) Run(ctx context.Context) error {
	c.logger.Info("creation consumer started", slog.String("country_iso", string(c.country)))

	for {
		message, err := c.subscription.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("creation consumer stopped", slog.String("country_iso", string(c.country)))
				return nil
			}
			return err
		}
		c.handle(ctx, message)
	}
}

func (c *CreationConsumer) handle(ctx context.Context, message *pubsub.Message) {
	if country := message.Metadata[usecase.AttributeCountryISO]; country != string(c.country) {
		c.logger.Debug("skipping event for another country",
			slog.String("country_iso", country),
			slog.String("consumer_country_iso", string(c.country)),
		)
		message.Ack()
		return
	}

	var event usecase.CreationEvent
	if err := json.Unmarshal(message.Body, &event); err != nil {
		c.logger.Error("failed to unmarshal creation event", slog.Any("error", err))
		nackOrAck(message)
		return
	}

	if err := c.processor.Process(ctx, event); err != nil {
		c.logger.Error("failed to process creation event",
			slog.Any("error", err),
			slog.String("appointment_id", event.AppointmentID.String()),
			slog.String("country_iso", string(c.country)),
		)
		nackOrAck(message)
		return
	}

	message.Ack()
}

// nackOrAck returns the message to the broker for redelivery, falling back to
// ack on drivers that do not support nack so the loop is not wedged on a
// poison message.
func nackOrAck(message *pubsub.Message) {
	if message.Nackable() {
		message.Nack()
		return
	}
	message.Ack()
}
