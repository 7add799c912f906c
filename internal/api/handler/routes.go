// Package handler provides HTTP handlers for the HealthRoute API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/api/middleware"
	"github.com/healthroute/healthroute/internal/api/models"
	"github.com/healthroute/healthroute/internal/api/response"
	"github.com/healthroute/healthroute/internal/routing"
	"github.com/healthroute/healthroute/internal/scoring"
	"github.com/healthroute/healthroute/internal/trip"
	"github.com/healthroute/healthroute/pkg/polyline"
)

// Planner plans ranked routes between two free-text locations.
type Planner interface {
	Plan(ctx context.Context, req trip.PlanRequest) (*trip.PlanResult, error)
}

// RoutesHandler handles route planning requests.
type RoutesHandler struct {
	planner Planner
	logger  zerolog.Logger
}

// NewRoutesHandler creates a new RoutesHandler.
func NewRoutesHandler(planner Planner, logger zerolog.Logger) *RoutesHandler {
	return &RoutesHandler{
		planner: planner,
		logger:  logger.With().Str("handler", "routes").Logger(),
	}
}

// PlanRoutes handles POST /api/routes.
func (h *RoutesHandler) PlanRoutes(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	result, err := h.planner.Plan(r.Context(), trip.PlanRequest{Start: req.Start, End: req.End})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.PlanResponse{
		Fastest:          toScoredRoute(result.Ranked.Fastest),
		Healthiest:       toScoredRoute(result.Ranked.Healthiest),
		SecondHealthiest: toScoredRoute(result.Ranked.SecondHealthiest),
	})
}

func (h *RoutesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, trip.ErrMissingEndpoints):
		response.BadRequest(w, r, "start and end are required")
	case errors.Is(err, routing.ErrNoRouteFound):
		response.NotFound(w, r, "no route found between the given locations")
	default:
		h.logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("plan request failed")
		response.InternalError(w, r, "failed to plan routes")
	}
}

func toScoredRoute(s *scoring.ScoredRoute) *models.ScoredRoute {
	if s == nil {
		return nil
	}

	coords := polyline.Decode(s.Route.GeometryPolyline)
	line := models.LineString{Type: "LineString", Coordinates: make([][2]float64, 0, len(coords))}
	for _, c := range coords {
		line.Coordinates = append(line.Coordinates, [2]float64{c.Lon, c.Lat})
	}

	return &models.ScoredRoute{
		ID:           s.Route.ID,
		Name:         s.Route.Summary,
		DurationMins: s.DurationMins,
		DistanceKm:   s.DistanceKm,
		HealthScore:  s.HealthScore,
		Metrics: models.RouteMetrics{
			PM25:        s.AvgPM25,
			TempCelsius: s.TempCelsius,
		},
		Geometry: line,
	}
}
