// Package testutil provides testing utilities for the pub/sub transport.
//
// Topic/Subscription Setup:
//
//	topic := testutil.SetupTopic(t, "mem://TestMyFeature")
//	subscription := testutil.SetupSubscription(t, "mem://TestMyFeature")
//
// Use a URL unique to the test (the test name works well) so concurrent tests
// do not share an in-memory topic. Open the topic before its subscription:
// the mem driver attaches subscriptions to already-open topics.
package testutil

import (
	"context"
	"testing"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// SetupTopic opens an in-memory topic and registers its shutdown with t.Cleanup.
func SetupTopic(t *testing.T, url string) *pubsub.Topic {
	t.Helper()

	topic, err := pubsub.OpenTopic(context.Background(), url)
	if err != nil {
		t.Fatalf("failed to open topic %s: %v", url, err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := topic.Shutdown(ctx); err != nil {
			t.Logf("failed to shutdown topic %s: %v", url, err)
		}
	})
	return topic
}

// SetupSubscription opens an in-memory subscription and registers its shutdown
// with t.Cleanup.
func SetupSubscription(t *testing.T, url string) *pubsub.Subscription {
	t.Helper()

	subscription, err := pubsub.OpenSubscription(context.Background(), url)
	if err != nil {
		t.Fatalf("failed to open subscription %s: %v", url, err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := subscription.Shutdown(ctx); err != nil {
			t.Logf("failed to shutdown subscription %s: %v", url, err)
		}
	})
	return subscription
}
