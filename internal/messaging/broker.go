// Package messaging provides the pub/sub transport for the appointment
// pipeline using gocloud.dev/pubsub. Broker selection is URL-driven: mem://
// for local development and tests, awssnssqs:// against SNS/SQS in
// production, where the countryISO message attribute drives server-side
// subscription filtering.
package messaging

import (
	"context"

	"gocloud.dev/pubsub"

	apperrors "github.com/andeanhealth/appointments/internal/errors"

	// Register pub/sub broker drivers
	_ "gocloud.dev/pubsub/awssnssqs"
	_ "gocloud.dev/pubsub/mempubsub"
)

// OpenTopic opens a topic for the configured broker URL.
func OpenTopic(ctx context.Context, url string) (*pubsub.Topic, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open topic")
	}
	return topic, nil
}

// OpenSubscription opens a subscription for the configured broker URL.
func OpenSubscription(ctx context.Context, url string) (*pubsub.Subscription, error) {
	subscription, err := pubsub.OpenSubscription(ctx, url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open subscription")
	}
	return subscription, nil
}
