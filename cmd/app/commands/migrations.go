package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations for one store. The migration
// path is derived from the driver (postgresql or mysql) and the store name
// (appointments or country). Returns nil when there is nothing to apply.
func RunMigrations(logger *slog.Logger, store, driver, connectionString string) error {
	if store != "appointments" && store != "country" {
		return fmt.Errorf("unknown store: %s (valid options: appointments, country)", store)
	}

	logger.Info("running database migrations",
		slog.String("store", store),
		slog.String("driver", driver),
	)

	driverDir := "postgresql"
	if driver == "mysql" {
		driverDir = "mysql"
	}
	migrationsPath := fmt.Sprintf("file://migrations/%s/%s", store, driverDir)

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
