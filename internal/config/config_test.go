package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "mysql", cfg.CountryDBDriver)
	assert.Equal(t, "mem://appointments", cfg.AppointmentsTopicURL)
	assert.Equal(t, "mem://appointments", cfg.AppointmentsSubscriptionPEURL)
	assert.Equal(t, "mem://appointments", cfg.AppointmentsSubscriptionCLURL)
	assert.Equal(t, "mem://confirmations", cfg.ConfirmationsTopicURL)
	assert.Equal(t, "appointments", cfg.MetricsNamespace)
	assert.Equal(t, 8081, cfg.MetricsPort)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("APPOINTMENTS_TOPIC_URL", "awssnssqs://arn:aws:sns:us-east-1:123456789012:appointments")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "awssnssqs://arn:aws:sns:us-east-1:123456789012:appointments", cfg.AppointmentsTopicURL)
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "unknown"}).GetGinMode())
}
