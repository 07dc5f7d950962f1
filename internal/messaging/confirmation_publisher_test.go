package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanhealth/appointments/internal/appointment/usecase"
	"github.com/andeanhealth/appointments/internal/testutil"
)

func TestPubSubConfirmationPublisher_Publish(t *testing.T) {
	topic := testutil.SetupTopic(t, "mem://TestPubSubConfirmationPublisher")
	subscription := testutil.SetupSubscription(t, "mem://TestPubSubConfirmationPublisher")

	publisher := NewPubSubConfirmationPublisher(topic, testLogger())

	event := usecase.ConfirmationEvent{
		AppointmentID: uuid.Must(uuid.NewV7()),
		InsuredID:     "01234",
		Status:        usecase.StatusProcessed,
	}

	err := publisher.Publish(context.Background(), event)
	require.NoError(t, err)

	message, err := subscription.Receive(receiveContext(t))
	require.NoError(t, err)
	defer message.Ack()

	var received usecase.ConfirmationEvent
	require.NoError(t, json.Unmarshal(message.Body, &received))
	assert.Equal(t, event, received)
}

func TestPubSubConfirmationPublisher_Publish_ClosedTopic(t *testing.T) {
	topic := testutil.SetupTopic(t, "mem://TestPubSubConfirmationPublisherClosed")
	require.NoError(t, topic.Shutdown(context.Background()))

	publisher := NewPubSubConfirmationPublisher(topic, testLogger())

	err := publisher.Publish(context.Background(), usecase.ConfirmationEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send confirmation event")
}

func TestOpenTopicAndSubscription(t *testing.T) {
	ctx := context.Background()

	topic, err := OpenTopic(ctx, "mem://TestOpenTopicAndSubscription")
	require.NoError(t, err)
	defer func() { _ = topic.Shutdown(ctx) }()

	subscription, err := OpenSubscription(ctx, "mem://TestOpenTopicAndSubscription")
	require.NoError(t, err)
	defer func() { _ = subscription.Shutdown(ctx) }()
}

func TestOpenTopic_InvalidURL(t *testing.T) {
	_, err := OpenTopic(context.Background(), "bogus://nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open topic")
}
