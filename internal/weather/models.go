// Package weather provides destination temperature readings for route scoring.
package weather

import (
	"context"
	"errors"
)

// Sentinel errors for weather operations.
var (
	// ErrProviderUnavailable indicates the weather provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// DefaultTemperatureCelsius is the fallback used when the provider responds
// without a usable temperature field.
const DefaultTemperatureCelsius = 25.0

// Provider defines the interface for weather data providers.
type Provider interface {
	// FetchTemperature fetches the current temperature in Celsius at a point.
	FetchTemperature(ctx context.Context, lat, lon float64) (float64, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Error provides detailed error information from the weather provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
