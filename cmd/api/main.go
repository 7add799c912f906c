// Package main provides the entrypoint for the HealthRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/airquality"
	"github.com/healthroute/healthroute/internal/airquality/googleair"
	"github.com/healthroute/healthroute/internal/api"
	"github.com/healthroute/healthroute/internal/api/middleware"
	"github.com/healthroute/healthroute/internal/config"
	"github.com/healthroute/healthroute/internal/geocoding"
	geomapbox "github.com/healthroute/healthroute/internal/geocoding/mapbox"
	"github.com/healthroute/healthroute/internal/provider/resilience"
	"github.com/healthroute/healthroute/internal/routing"
	routemapbox "github.com/healthroute/healthroute/internal/routing/mapbox"
	"github.com/healthroute/healthroute/internal/telemetry"
	"github.com/healthroute/healthroute/internal/trip"
	"github.com/healthroute/healthroute/internal/weather/googleweather"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "healthroute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting HealthRoute API")

	cfg := config.FromEnv()

	if cfg.MapboxAccessToken == "" {
		log.Warn().Msg("MAPBOX_ACCESS_TOKEN not set - geocoding and routing will fail")
	}
	if cfg.GoogleMapsAPIKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - air quality and weather will fail")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Provider health registry, surfaced on /api/ops/status
	registry := resilience.NewRegistry()

	// Geocoding
	geocoder := geomapbox.NewClient(geomapbox.ClientConfig{
		AccessToken: cfg.MapboxAccessToken,
		Timeout:     cfg.ProviderTimeout,
		Registry:    registry,
		Logger:      log,
	})
	resolver := geocoding.NewResolver(geocoding.ResolverConfig{
		Provider: geocoder,
		Logger:   log,
	})
	log.Info().Msg("geocoding resolver initialized")

	// Routing
	directions := routemapbox.NewClient(routemapbox.ClientConfig{
		AccessToken: cfg.MapboxAccessToken,
		Timeout:     cfg.ProviderTimeout,
		Registry:    registry,
		Logger:      log,
	})
	routeService := routing.NewService(routing.ServiceConfig{
		Provider: directions,
		Logger:   log,
	})
	log.Info().Msg("routing service initialized")

	// Air quality, behind the grid cache
	airClient := googleair.NewClient(googleair.ClientConfig{
		APIKey:   cfg.GoogleMapsAPIKey,
		Timeout:  cfg.ProviderTimeout,
		Registry: registry,
		Logger:   log,
	})
	envCache := airquality.NewGridCache(airquality.CacheConfig{
		Provider:   airClient,
		Logger:     log,
		MaxEntries: cfg.CacheMaxEntries,
		Metrics:    providerMetrics,
	})
	log.Info().
		Int("max_entries", cfg.CacheMaxEntries).
		Msg("environment cache initialized")

	// Weather
	weatherClient := googleweather.NewClient(googleweather.ClientConfig{
		APIKey:   cfg.GoogleMapsAPIKey,
		Timeout:  cfg.ProviderTimeout,
		Registry: registry,
		Logger:   log,
	})
	log.Info().Msg("weather client initialized")

	// Orchestrator
	planner := trip.NewPlanner(trip.PlannerConfig{
		Resolver:         resolver,
		Routes:           routeService,
		AirQuality:       envCache,
		Weather:          weatherClient,
		SampleStepMeters: cfg.SampleStepMeters,
		Logger:           log,
	})
	log.Info().Msg("trip planner initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Planner:     planner,
		Registry:    registry,
		Cache:       envCache,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
