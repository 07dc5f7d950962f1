package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"gocloud.dev/pubsub"

	"github.com/andeanhealth/appointments/internal/appointment/usecase"
)

// ConfirmationConsumer receives processing confirmations and drives the
// status updater, closing the appointment lifecycle loop.
type ConfirmationConsumer struct {
	subscription *pubsub.Subscription
	updater      usecase.StatusUseCase
	logger       *slog.Logger
}

// NewConfirmationConsumer creates a consumer bound to an open subscription.
func NewConfirmationConsumer(
	subscription *pubsub.Subscription,
	updater usecase.StatusUseCase,
	logger *slog.Logger,
) *ConfirmationConsumer {
	return &ConfirmationConsumer{
		subscription: subscription,
		updater:      updater,
		logger:       logger,
	}
}

// Run receives messages until the context is canceled. Failed updates are
// nacked for broker redelivery; the status update is idempotent so repeated
// confirmations settle on the same terminal state.
func (c *ConfirmationConsumer) Run(ctx context.Context) error {
	c.logger.Info("confirmation consumer started")

	for {
		message, err := c.subscription.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("confirmation consumer stopped")
				return nil
			}
			return err
		}
		c.handle(ctx, message)
	}
}

func (c *ConfirmationConsumer) handle(ctx context.Context, message *pubsub.Message) {
	var event usecase.ConfirmationEvent
	if err := json.Unmarshal(message.Body, &event); err != nil {
		c.logger.Error("failed to unmarshal confirmation event", slog.Any("error", err))
		nackOrAck(message)
		return
	}

	if err := c.updater.UpdateStatus(ctx, event); err != nil {
		c.logger.Error("failed to update appointment status",
			slog.Any("error", err),
			slog.String("appointment_id", event.AppointmentID.String()),
		)
		nackOrAck(message)
		return
	}

	message.Ack()
}
