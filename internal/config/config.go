// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration, read once at startup.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment (development, production).
	Environment string

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// TelemetryEnabled toggles trace and metric export.
	TelemetryEnabled bool

	// MapboxAccessToken authenticates geocoding and directions calls.
	MapboxAccessToken string

	// GoogleMapsAPIKey authenticates air quality and weather calls.
	GoogleMapsAPIKey string

	// ProviderTimeout is the per-request timeout for upstream providers.
	ProviderTimeout time.Duration

	// SampleStepMeters is the pollution sampling interval along a route.
	SampleStepMeters float64

	// CacheMaxEntries bounds the environment cache.
	CacheMaxEntries int
}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	return Config{
		Port:              getEnvOrDefault("APP_PORT", "8080"),
		Environment:       getEnvOrDefault("APP_ENV", "development"),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		MapboxAccessToken: os.Getenv("MAPBOX_ACCESS_TOKEN"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		ProviderTimeout:   getDurationOrDefault("PROVIDER_TIMEOUT", 10*time.Second),
		SampleStepMeters:  getFloatOrDefault("SAMPLE_STEP_METERS", 300),
		CacheMaxEntries:   getIntOrDefault("CACHE_MAX_ENTRIES", 100_000),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
