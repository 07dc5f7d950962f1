package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/andeanhealth/appointments/internal/app"
	"github.com/andeanhealth/appointments/internal/config"
)

// RunWorker starts the asynchronous consumers: one creation consumer per
// country plus the confirmation consumer driving status updates. Blocks until
// receiving SIGINT/SIGTERM or until a consumer fails. Consumers stop by
// context cancellation, so a signal drains them and the deferred container
// shutdown closes the broker resources.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	creationConsumers, err := container.CreationConsumers(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize creation consumers: %w", err)
	}

	confirmationConsumer, err := container.ConfirmationConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize confirmation consumer: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, creationConsumer := range creationConsumers {
		g.Go(func() error {
			return creationConsumer.Run(ctx)
		})
	}

	g.Go(func() error {
		return confirmationConsumer.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker error: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}
