// Package airquality provides particulate pollution readings keyed by
// spatial grid cell, with a process-lifetime cache in front of the provider.
package airquality

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for air quality operations.
var (
	// ErrProviderUnavailable indicates the pollution provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
)

const (
	// GridCellDegrees is the quantization resolution for cache keys.
	// 0.001 degrees is roughly 110 meters; two coordinates inside the same
	// cell are treated as environmentally identical.
	GridCellDegrees = 0.001

	// DefaultPM25 is the fallback concentration in µg/m³ used when the
	// provider responds without a usable PM2.5 entry.
	DefaultPM25 = 15.0
)

// Reading is a pollution measurement for one grid cell.
type Reading struct {
	// PM25 is the fine particulate concentration in µg/m³.
	PM25 float64
}

// Provider defines the interface for air quality data providers.
type Provider interface {
	// FetchPM25 fetches the current PM2.5 concentration at a point.
	FetchPM25(ctx context.Context, lat, lon float64) (float64, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// GridKeyFor quantizes a coordinate to its cache key. Quantization truncates
// toward negative infinity so that every point inside a cell maps to the
// cell's south-west corner. Keys are formatted lon-first.
func GridKeyFor(lat, lon float64) string {
	qLat := math.Floor(lat/GridCellDegrees) * GridCellDegrees
	qLon := math.Floor(lon/GridCellDegrees) * GridCellDegrees
	return fmt.Sprintf("%.3f,%.3f", qLon, qLat)
}

// Error provides detailed error information from the air quality provider.
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
