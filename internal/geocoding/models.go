// Package geocoding resolves free-text location queries to coordinates.
package geocoding

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for geocoding operations.
var (
	// ErrLocationNotFound indicates the query matched no known place.
	ErrLocationNotFound = errors.New("location not found")

	// ErrProviderUnavailable indicates the geocoding provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")

	// ErrInvalidCoordinates indicates a literal coordinate query outside the
	// valid latitude/longitude range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate is within valid ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinates, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

// Match is a single geocoding result.
type Match struct {
	Coordinate Coordinate
	PlaceName  string
	Relevance  float64
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Search returns matches for a free-text query, best first. A non-nil
	// proximity biases results toward that point.
	Search(ctx context.Context, query string, proximity *Coordinate) ([]Match, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Error provides detailed error information from the geocoding provider.
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
