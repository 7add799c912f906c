package routing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing provider (required).
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fetches candidate routes from the configured provider.
// Results are not cached and calls are not retried; route planning is
// fail-fast end to end.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("component", "routing").Logger(),
	}
}

// GetRoutes returns candidate routes between two points. An empty provider
// result is ErrNoRouteFound.
func (s *Service) GetRoutes(ctx context.Context, from, to Coordinate) ([]Route, error) {
	if err := validateCoordinates(from, to); err != nil {
		return nil, err
	}

	routes, err := s.provider.GetRoutes(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching routes: %w", err)
	}
	if len(routes) == 0 {
		s.logger.Info().
			Float64("from_lat", from.Lat).
			Float64("from_lon", from.Lon).
			Float64("to_lat", to.Lat).
			Float64("to_lon", to.Lon).
			Msg("provider returned no routes")
		return nil, ErrNoRouteFound
	}

	s.logger.Debug().
		Int("candidates", len(routes)).
		Str("provider", s.provider.Name()).
		Msg("fetched candidate routes")

	return routes, nil
}
