// Package app provides the dependency injection container assembling the
// appointment pipeline components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"gocloud.dev/pubsub"

	"github.com/andeanhealth/appointments/internal/appointment/consumer"
	"github.com/andeanhealth/appointments/internal/appointment/domain"
	appointmentHTTP "github.com/andeanhealth/appointments/internal/appointment/http"
	"github.com/andeanhealth/appointments/internal/appointment/repository"
	"github.com/andeanhealth/appointments/internal/appointment/usecase"
	"github.com/andeanhealth/appointments/internal/config"
	"github.com/andeanhealth/appointments/internal/database"
	"github.com/andeanhealth/appointments/internal/http"
	"github.com/andeanhealth/appointments/internal/messaging"
	"github.com/andeanhealth/appointments/internal/metrics"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access. Accessors that open
// pub/sub resources take a context because broker connections are dialed at
// open time.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	countryDB *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	appointmentRepo usecase.AppointmentRepository
	countryRepo     usecase.CountryAppointmentRepository

	// Pub/sub resources
	appointmentsTopic        *pubsub.Topic
	confirmationsTopic       *pubsub.Topic
	peSubscription           *pubsub.Subscription
	clSubscription           *pubsub.Subscription
	confirmationSubscription *pubsub.Subscription

	// Publishers
	eventPublisher        usecase.EventPublisher
	confirmationPublisher usecase.ConfirmationPublisher

	// Use cases
	appointmentUseCase usecase.UseCase
	peProcessor        usecase.ProcessUseCase
	clProcessor        usecase.ProcessUseCase
	statusUseCase      usecase.StatusUseCase

	// Servers and consumers
	httpServer           *http.Server
	metricsServer        *http.MetricsServer
	creationConsumers    []*consumer.CreationConsumer
	confirmationConsumer *consumer.ConfirmationConsumer

	// Initialization flags and mutex for thread-safety
	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	countryDBInit            sync.Once
	txManagerInit            sync.Once
	metricsInit              sync.Once
	appointmentRepoInit      sync.Once
	countryRepoInit          sync.Once
	appointmentsTopicInit    sync.Once
	confirmationsTopicInit   sync.Once
	eventPublisherInit       sync.Once
	confirmationPubInit      sync.Once
	appointmentUseCaseInit   sync.Once
	peProcessorInit          sync.Once
	clProcessorInit          sync.Once
	statusUseCaseInit        sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	creationConsumersInit    sync.Once
	confirmationConsumerInit sync.Once
	initErrors               map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the primary appointment store connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to primary database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// CountryDB returns the country record store connection.
func (c *Container) CountryDB() (*sql.DB, error) {
	c.countryDBInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.CountryDBDriver,
			ConnectionString:   c.config.CountryDBConnectionString,
			MaxOpenConnections: c.config.CountryDBMaxOpenConnections,
			MaxIdleConnections: c.config.CountryDBMaxIdleConnections,
			ConnMaxLifetime:    c.config.CountryDBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["countryDB"] = fmt.Errorf("failed to connect to country database: %w", err)
			return
		}
		c.countryDB = db
	})
	if err, exists := c.initErrors["countryDB"]; exists {
		return nil, err
	}
	return c.countryDB, nil
}

// TxManager returns the transaction manager bound to the primary store.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder (no-op when disabled).
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

func (c *Container) initMetrics() error {
	c.metricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metrics"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}

		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}

		c.metricsProvider = provider
		c.businessMetrics = businessMetrics
	})
	return c.initErrors["metrics"]
}

// AppointmentRepository returns the primary appointment repository.
func (c *Container) AppointmentRepository() (usecase.AppointmentRepository, error) {
	c.appointmentRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["appointmentRepo"] = fmt.Errorf("failed to get database for appointment repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.appointmentRepo = repository.NewMySQLAppointmentRepository(db)
		case "postgres":
			c.appointmentRepo = repository.NewPostgreSQLAppointmentRepository(db)
		default:
			c.initErrors["appointmentRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["appointmentRepo"]; exists {
		return nil, err
	}
	return c.appointmentRepo, nil
}

// CountryAppointmentRepository returns the country record repository.
func (c *Container) CountryAppointmentRepository() (usecase.CountryAppointmentRepository, error) {
	c.countryRepoInit.Do(func() {
		db, err := c.CountryDB()
		if err != nil {
			c.initErrors["countryRepo"] = fmt.Errorf("failed to get database for country repository: %w", err)
			return
		}

		switch c.config.CountryDBDriver {
		case "mysql":
			c.countryRepo = repository.NewMySQLCountryRepository(db)
		case "postgres":
			c.countryRepo = repository.NewPostgreSQLCountryRepository(db)
		default:
			c.initErrors["countryRepo"] = fmt.Errorf("unsupported country database driver: %s", c.config.CountryDBDriver)
		}
	})
	if err, exists := c.initErrors["countryRepo"]; exists {
		return nil, err
	}
	return c.countryRepo, nil
}

// EventPublisher returns the creation event publisher.
func (c *Container) EventPublisher(ctx context.Context) (usecase.EventPublisher, error) {
	c.eventPublisherInit.Do(func() {
		topic, err := c.appointmentsTopicResource(ctx)
		if err != nil {
			c.initErrors["eventPublisher"] = err
			return
		}
		c.eventPublisher = messaging.NewPubSubEventPublisher(topic, c.Logger())
	})
	if err, exists := c.initErrors["eventPublisher"]; exists {
		return nil, err
	}
	return c.eventPublisher, nil
}

// ConfirmationPublisher returns the processing confirmation publisher.
func (c *Container) ConfirmationPublisher(ctx context.Context) (usecase.ConfirmationPublisher, error) {
	c.confirmationPubInit.Do(func() {
		topic, err := c.confirmationsTopicResource(ctx)
		if err != nil {
			c.initErrors["confirmationPublisher"] = err
			return
		}
		c.confirmationPublisher = messaging.NewPubSubConfirmationPublisher(topic, c.Logger())
	})
	if err, exists := c.initErrors["confirmationPublisher"]; exists {
		return nil, err
	}
	return c.confirmationPublisher, nil
}

func (c *Container) appointmentsTopicResource(ctx context.Context) (*pubsub.Topic, error) {
	c.appointmentsTopicInit.Do(func() {
		topic, err := messaging.OpenTopic(ctx, c.config.AppointmentsTopicURL)
		if err != nil {
			c.initErrors["appointmentsTopic"] = fmt.Errorf("failed to open appointments topic: %w", err)
			return
		}
		c.appointmentsTopic = topic
	})
	if err, exists := c.initErrors["appointmentsTopic"]; exists {
		return nil, err
	}
	return c.appointmentsTopic, nil
}

func (c *Container) confirmationsTopicResource(ctx context.Context) (*pubsub.Topic, error) {
	c.confirmationsTopicInit.Do(func() {
		topic, err := messaging.OpenTopic(ctx, c.config.ConfirmationsTopicURL)
		if err != nil {
			c.initErrors["confirmationsTopic"] = fmt.Errorf("failed to open confirmations topic: %w", err)
			return
		}
		c.confirmationsTopic = topic
	})
	if err, exists := c.initErrors["confirmationsTopic"]; exists {
		return nil, err
	}
	return c.confirmationsTopic, nil
}

// AppointmentUseCase returns the appointment use case, instrumented with metrics.
func (c *Container) AppointmentUseCase(ctx context.Context) (usecase.UseCase, error) {
	c.appointmentUseCaseInit.Do(func() {
		repo, err := c.AppointmentRepository()
		if err != nil {
			c.initErrors["appointmentUseCase"] = err
			return
		}

		publisher, err := c.EventPublisher(ctx)
		if err != nil {
			c.initErrors["appointmentUseCase"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["appointmentUseCase"] = err
			return
		}

		useCase := usecase.NewAppointmentUseCase(repo, publisher, c.Logger())
		c.appointmentUseCase = usecase.NewUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["appointmentUseCase"]; exists {
		return nil, err
	}
	return c.appointmentUseCase, nil
}

// ProcessUseCase returns the country processor for the given country,
// instrumented with metrics.
func (c *Container) ProcessUseCase(ctx context.Context, country domain.CountryISO) (usecase.ProcessUseCase, error) {
	switch country {
	case domain.CountryPE:
		c.peProcessorInit.Do(func() {
			processor, err := c.initProcessUseCase(ctx, country)
			if err != nil {
				c.initErrors["peProcessor"] = err
				return
			}
			c.peProcessor = processor
		})
		if err, exists := c.initErrors["peProcessor"]; exists {
			return nil, err
		}
		return c.peProcessor, nil
	case domain.CountryCL:
		c.clProcessorInit.Do(func() {
			processor, err := c.initProcessUseCase(ctx, country)
			if err != nil {
				c.initErrors["clProcessor"] = err
				return
			}
			c.clProcessor = processor
		})
		if err, exists := c.initErrors["clProcessor"]; exists {
			return nil, err
		}
		return c.clProcessor, nil
	default:
		return nil, fmt.Errorf("unsupported country: %s", country)
	}
}

func (c *Container) initProcessUseCase(ctx context.Context, country domain.CountryISO) (usecase.ProcessUseCase, error) {
	countryRepo, err := c.CountryAppointmentRepository()
	if err != nil {
		return nil, err
	}

	confirmer, err := c.ConfirmationPublisher(ctx)
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	processor := usecase.NewCountryProcessor(country, nil, countryRepo, confirmer, c.Logger())
	return usecase.NewProcessUseCaseWithMetrics(processor, country, businessMetrics), nil
}

// StatusUseCase returns the confirmation-driven status updater, instrumented
// with metrics.
func (c *Container) StatusUseCase() (usecase.StatusUseCase, error) {
	c.statusUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["statusUseCase"] = err
			return
		}

		repo, err := c.AppointmentRepository()
		if err != nil {
			c.initErrors["statusUseCase"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["statusUseCase"] = err
			return
		}

		useCase := usecase.NewStatusUpdateUseCase(txManager, repo, c.Logger())
		c.statusUseCase = usecase.NewStatusUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["statusUseCase"]; exists {
		return nil, err
	}
	return c.statusUseCase, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		appointmentUseCase, err := c.AppointmentUseCase(ctx)
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get use case for http server: %w", err)
			return
		}

		var metricsMiddleware gin.HandlerFunc
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		if provider != nil {
			metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
		}

		handler := appointmentHTTP.NewAppointmentHandler(appointmentUseCase, c.Logger())
		c.httpServer = http.NewServer(c.config, handler, metricsMiddleware, c.Logger())
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// CreationConsumers returns the per-country creation consumers (PE and CL).
func (c *Container) CreationConsumers(ctx context.Context) ([]*consumer.CreationConsumer, error) {
	c.creationConsumersInit.Do(func() {
		subscriptions := map[domain.CountryISO]string{
			domain.CountryPE: c.config.AppointmentsSubscriptionPEURL,
			domain.CountryCL: c.config.AppointmentsSubscriptionCLURL,
		}

		for _, country := range domain.Countries() {
			subscription, err := messaging.OpenSubscription(ctx, subscriptions[country])
			if err != nil {
				c.initErrors["creationConsumers"] = fmt.Errorf(
					"failed to open %s subscription: %w", country, err)
				return
			}

			processor, err := c.ProcessUseCase(ctx, country)
			if err != nil {
				c.initErrors["creationConsumers"] = err
				return
			}

			switch country {
			case domain.CountryPE:
				c.peSubscription = subscription
			case domain.CountryCL:
				c.clSubscription = subscription
			}

			c.creationConsumers = append(
				c.creationConsumers,
				consumer.NewCreationConsumer(country, subscription, processor, c.Logger()),
			)
		}
	})
	if err, exists := c.initErrors["creationConsumers"]; exists {
		return nil, err
	}
	return c.creationConsumers, nil
}

// ConfirmationConsumer returns the confirmation consumer driving status updates.
func (c *Container) ConfirmationConsumer(ctx context.Context) (*consumer.ConfirmationConsumer, error) {
	c.confirmationConsumerInit.Do(func() {
		subscription, err := messaging.OpenSubscription(ctx, c.config.ConfirmationsSubscriptionURL)
		if err != nil {
			c.initErrors["confirmationConsumer"] = fmt.Errorf("failed to open confirmations subscription: %w", err)
			return
		}

		statusUseCase, err := c.StatusUseCase()
		if err != nil {
			c.initErrors["confirmationConsumer"] = err
			return
		}

		c.confirmationSubscription = subscription
		c.confirmationConsumer = consumer.NewConfirmationConsumer(subscription, statusUseCase, c.Logger())
	})
	if err, exists := c.initErrors["confirmationConsumer"]; exists {
		return nil, err
	}
	return c.confirmationConsumer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	for name, subscription := range map[string]*pubsub.Subscription{
		"pe subscription":           c.peSubscription,
		"cl subscription":           c.clSubscription,
		"confirmation subscription": c.confirmationSubscription,
	} {
		if subscription == nil {
			continue
		}
		if err := subscription.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("%s shutdown: %w", name, err))
		}
	}

	for name, topic := range map[string]*pubsub.Topic{
		"appointments topic":  c.appointmentsTopic,
		"confirmations topic": c.confirmationsTopic,
	} {
		if topic == nil {
			continue
		}
		if err := topic.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("%s shutdown: %w", name, err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("primary database close: %w", err))
		}
	}

	if c.countryDB != nil {
		if err := c.countryDB.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("country database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a JSON structured logger based on the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
