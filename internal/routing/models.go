// Package routing provides candidate driving routes between two points.
package routing

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for routing operations.
var (
	// ErrNoRouteFound indicates no drivable route exists between the points.
	ErrNoRouteFound = errors.New("no route found")

	// ErrProviderUnavailable indicates the routing provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")

	// ErrInvalidCoordinates indicates coordinates outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Route is one candidate route between two points.
type Route struct {
	// ID uniquely identifies the candidate within a response.
	ID string

	// GeometryPolyline is the encoded polyline of the full route geometry.
	GeometryPolyline string

	// DurationSeconds is the estimated driving time.
	DurationSeconds float64

	// DistanceMeters is the route length.
	DistanceMeters float64

	// Summary is a short human-readable description, typically road names.
	Summary string
}

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoutes returns candidate routes between two points, including
	// alternatives when the provider has them.
	GetRoutes(ctx context.Context, from, to Coordinate) ([]Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Error provides detailed error information from the routing provider.
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

func validateCoordinates(from, to Coordinate) error {
	for _, c := range []Coordinate{from, to} {
		if c.Lat < -90 || c.Lat > 90 {
			return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinates, c.Lat)
		}
		if c.Lon < -180 || c.Lon > 180 {
			return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinates, c.Lon)
		}
	}
	return nil
}
