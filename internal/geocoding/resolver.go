package geocoding

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
)

// literalCoordPattern matches queries of the form "<lat>, <lon>" so that
// coordinate input skips the provider entirely.
var literalCoordPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Provider is the geocoding provider (required).
	Provider Provider

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver turns free-text location queries into coordinates.
type Resolver struct {
	provider Provider
	logger   zerolog.Logger
}

// NewResolver creates a new resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("component", "geocoding").Logger(),
	}
}

// Resolve resolves a query to a coordinate. Literal "lat, lon" queries are
// parsed directly without a provider call; anything else goes to the provider
// with an optional proximity bias, and the top match wins. Results are not
// cached.
func (r *Resolver) Resolve(ctx context.Context, query string, proximity *Coordinate) (Coordinate, error) {
	if coord, ok := parseLiteral(query); ok {
		if err := coord.Validate(); err != nil {
			return Coordinate{}, err
		}
		r.logger.Debug().
			Float64("lat", coord.Lat).
			Float64("lon", coord.Lon).
			Msg("resolved literal coordinates")
		return coord, nil
	}

	matches, err := r.provider.Search(ctx, query, proximity)
	if err != nil {
		return Coordinate{}, fmt.Errorf("searching %q: %w", query, err)
	}
	if len(matches) == 0 {
		r.logger.Info().Str("query", query).Msg("no geocoding matches")
		return Coordinate{}, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}

	top := matches[0]
	r.logger.Debug().
		Str("query", query).
		Str("place", top.PlaceName).
		Float64("relevance", top.Relevance).
		Msg("resolved location")

	return top.Coordinate, nil
}

func parseLiteral(query string) (Coordinate, bool) {
	m := literalCoordPattern.FindStringSubmatch(query)
	if m == nil {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}
