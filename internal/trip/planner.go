// Package trip orchestrates a plan request end to end: resolve both
// endpoints, fetch candidate routes, sample pollution along each, fetch the
// destination temperature, score and rank.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/healthroute/healthroute/internal/airquality"
	"github.com/healthroute/healthroute/internal/geocoding"
	"github.com/healthroute/healthroute/internal/routing"
	"github.com/healthroute/healthroute/internal/scoring"
	"github.com/healthroute/healthroute/pkg/polyline"
)

// ErrMissingEndpoints indicates a request without both start and end.
var ErrMissingEndpoints = errors.New("start and end are required")

const (
	// DefaultSampleStepMeters is the spacing between pollution samples
	// along a route.
	DefaultSampleStepMeters = 300.0

	// maxSampleConcurrency bounds parallel cache lookups per candidate.
	maxSampleConcurrency = 8
)

// Resolver resolves free-text locations to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, query string, proximity *geocoding.Coordinate) (geocoding.Coordinate, error)
}

// RouteFinder fetches candidate routes between two points.
type RouteFinder interface {
	GetRoutes(ctx context.Context, from, to routing.Coordinate) ([]routing.Route, error)
}

// TemperatureFetcher fetches the current temperature at a point.
type TemperatureFetcher interface {
	FetchTemperature(ctx context.Context, lat, lon float64) (float64, error)
}

// PlannerConfig holds the planner's collaborators.
type PlannerConfig struct {
	// Resolver resolves the start and end queries (required).
	Resolver Resolver

	// Routes fetches candidate routes (required).
	Routes RouteFinder

	// AirQuality is the grid-keyed pollution cache (required).
	AirQuality *airquality.GridCache

	// Weather fetches the destination temperature (required).
	Weather TemperatureFetcher

	// SampleStepMeters is the pollution sampling interval (optional,
	// defaults to DefaultSampleStepMeters).
	SampleStepMeters float64

	// Logger for planner operations.
	Logger zerolog.Logger
}

// PlanRequest is a route planning request.
type PlanRequest struct {
	Start string
	End   string
}

// PlanResult holds the ranked candidates and the resolved endpoints.
type PlanResult struct {
	Ranked scoring.Ranked
	Start  geocoding.Coordinate
	End    geocoding.Coordinate
}

// Planner coordinates the full plan pipeline. Any step failing aborts the
// whole request; there are no partial results.
type Planner struct {
	resolver   Resolver
	routes     RouteFinder
	airQuality *airquality.GridCache
	weather    TemperatureFetcher
	sampleStep float64
	logger     zerolog.Logger
}

// NewPlanner creates a new planner.
func NewPlanner(cfg PlannerConfig) *Planner {
	step := cfg.SampleStepMeters
	if step <= 0 {
		step = DefaultSampleStepMeters
	}
	return &Planner{
		resolver:   cfg.Resolver,
		routes:     cfg.Routes,
		airQuality: cfg.AirQuality,
		weather:    cfg.Weather,
		sampleStep: step,
		logger:     cfg.Logger.With().Str("component", "trip").Logger(),
	}
}

// Plan executes a plan request. The end query is resolved with a proximity
// bias toward the resolved start, and the destination temperature is fetched
// once and shared across all candidates.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	start := strings.TrimSpace(req.Start)
	end := strings.TrimSpace(req.End)
	if start == "" || end == "" {
		return nil, ErrMissingEndpoints
	}

	began := time.Now()

	startCoord, err := p.resolver.Resolve(ctx, start, nil)
	if err != nil {
		return nil, fmt.Errorf("resolving start: %w", err)
	}

	endCoord, err := p.resolver.Resolve(ctx, end, &startCoord)
	if err != nil {
		return nil, fmt.Errorf("resolving end: %w", err)
	}

	candidates, err := p.routes.GetRoutes(ctx,
		routing.Coordinate{Lat: startCoord.Lat, Lon: startCoord.Lon},
		routing.Coordinate{Lat: endCoord.Lat, Lon: endCoord.Lon})
	if err != nil {
		return nil, err
	}

	temp, err := p.weather.FetchTemperature(ctx, endCoord.Lat, endCoord.Lon)
	if err != nil {
		return nil, fmt.Errorf("fetching destination temperature: %w", err)
	}

	scored := make([]scoring.ScoredRoute, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			avgPM25, err := p.averagePM25(gctx, candidate)
			if err != nil {
				return fmt.Errorf("sampling route %s: %w", candidate.ID, err)
			}
			durationMins := candidate.DurationSeconds / 60
			scored[i] = scoring.ScoredRoute{
				Route:        candidate,
				AvgPM25:      avgPM25,
				TempCelsius:  temp,
				DurationMins: durationMins,
				DistanceKm:   candidate.DistanceMeters / 1000,
				HealthScore:  scoring.Score(avgPM25, temp, durationMins),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := scoring.Rank(scored)

	p.logger.Info().
		Int("candidates", len(candidates)).
		Dur("elapsed", time.Since(began)).
		Int("healthiest_score", ranked.Healthiest.HealthScore).
		Msg("plan complete")

	return &PlanResult{Ranked: ranked, Start: startCoord, End: endCoord}, nil
}

// averagePM25 samples pollution along the candidate's geometry at the
// configured interval and returns the arithmetic mean. A candidate with no
// usable geometry falls back to the default reading.
func (p *Planner) averagePM25(ctx context.Context, candidate routing.Route) (float64, error) {
	line := polyline.NewLine(polyline.Decode(candidate.GeometryPolyline))
	samples := polyline.SampleEvery(line, p.sampleStep)
	if len(samples) == 0 {
		return airquality.DefaultPM25, nil
	}

	readings := make([]float64, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSampleConcurrency)
	for i, sample := range samples {
		i, sample := i, sample
		g.Go(func() error {
			reading, err := p.airQuality.GetOrFetch(gctx, sample.Lat, sample.Lon)
			if err != nil {
				return err
			}
			readings[i] = reading.PM25
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, r := range readings {
		sum += r
	}
	return sum / float64(len(readings)), nil
}
