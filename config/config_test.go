package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders.events", cfg.Kafka.Topic)
	assert.Equal(t, 5, cfg.Shipping.TimeoutSec)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("LOGGER_DISABLE_STACKTRACE", "false")

	cfg := LoadEnv()

	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.False(t, cfg.Logger.DisableStacktrace)
}

func TestLoadEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "lots")
	t.Setenv("LOGGER_DISABLE_CALLER", "maybe")

	cfg := LoadEnv()

	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.False(t, cfg.Logger.DisableCaller)
}
