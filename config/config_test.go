package config_test

import (
	"testing"

	"tablebook/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_POSTGRES_WRITE_HOST", "primary.db")
	t.Setenv("DB_POSTGRES_READ_HOST", "replica.db")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "tablebook", cfg.App.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "booking-events", cfg.Kafka.BookingTopic)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "primary.db", cfg.DB.Postgres.Write.Host)
	assert.Equal(t, "replica.db", cfg.DB.Postgres.Read.Host)
	assert.Equal(t, "5432", cfg.DB.Postgres.Read.Port)
	assert.Equal(t, "file://migrations/postgres", cfg.DB.Postgres.MigrationPath)
	assert.InDelta(t, 1.0, cfg.External.Otel.SampleRatio, 0)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "five minutes")

	_, err := config.Load()
	assert.Error(t, err)
}
