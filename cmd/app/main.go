// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/andeanhealth/appointments/cmd/app/commands"
	"github.com/andeanhealth/appointments/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "appointments",
		Usage:   "Medical appointment scheduling service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "worker",
				Usage: "Start the appointment processing consumers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunWorker(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "store",
						Aliases: []string{"s"},
						Value:   "appointments",
						Usage:   "Store to migrate: 'appointments' or 'country'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

					store := cmd.String("store")
					driver := cfg.DBDriver
					connectionString := cfg.DBConnectionString
					if store == "country" {
						driver = cfg.CountryDBDriver
						connectionString = cfg.CountryDBConnectionString
					}

					return commands.RunMigrations(logger, store, driver, connectionString)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
