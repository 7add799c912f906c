package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthroute/healthroute/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.False(t, cfg.TelemetryEnabled)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 300.0, cfg.SampleStepMeters)
	assert.Equal(t, 100_000, cfg.CacheMaxEntries)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.test")
	t.Setenv("GOOGLE_MAPS_API_KEY", "key-test")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("SAMPLE_STEP_METERS", "500")
	t.Setenv("CACHE_MAX_ENTRIES", "1000")

	cfg := config.FromEnv()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "pk.test", cfg.MapboxAccessToken)
	assert.Equal(t, "key-test", cfg.GoogleMapsAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 500.0, cfg.SampleStepMeters)
	assert.Equal(t, 1000, cfg.CacheMaxEntries)
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "not-a-duration")
	t.Setenv("SAMPLE_STEP_METERS", "abc")
	t.Setenv("CACHE_MAX_ENTRIES", "many")

	cfg := config.FromEnv()

	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 300.0, cfg.SampleStepMeters)
	assert.Equal(t, 100_000, cfg.CacheMaxEntries)
}
