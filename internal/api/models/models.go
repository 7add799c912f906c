// Package models defines the wire types for the HealthRoute API.
package models

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the error payload shape for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Write serializes the error response with the given status code.
func (e ErrorResponse) Write(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}

// PlanRequest is the body of POST /api/routes.
type PlanRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LineString is a GeoJSON LineString geometry. Coordinates are
// [lon, lat] pairs.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// RouteMetrics holds the environmental readings behind a route's score.
type RouteMetrics struct {
	PM25        float64 `json:"pm25"`
	TempCelsius float64 `json:"tempCelsius"`
}

// ScoredRoute is one ranked candidate in the plan response.
type ScoredRoute struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DurationMins float64      `json:"durationMins"`
	DistanceKm   float64      `json:"distanceKm"`
	HealthScore  int          `json:"healthScore"`
	Metrics      RouteMetrics `json:"metrics"`
	Geometry     LineString   `json:"geometry"`
}

// PlanResponse is the body of a successful POST /api/routes.
type PlanResponse struct {
	Fastest          *ScoredRoute `json:"fastest"`
	Healthiest       *ScoredRoute `json:"healthiest"`
	SecondHealthiest *ScoredRoute `json:"secondHealthiest"`
}

// Health is the liveness/readiness payload.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatusOK is the healthy status value.
const HealthStatusOK = "ok"

// ProviderStatus reports one provider's circuit-breaker health.
type ProviderStatus struct {
	Provider            string  `json:"provider"`
	Status              string  `json:"status"`
	CircuitBreakerState string  `json:"circuitBreakerState"`
	SuccessCount        int64   `json:"successCount"`
	FailureCount        int64   `json:"failureCount"`
	ErrorRate           float64 `json:"errorRate"`
}

// CacheStatus reports the environment cache's state.
type CacheStatus struct {
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"maxEntries"`
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
	Provider   string `json:"provider"`
}

// SystemStatus is the body of GET /api/ops/status.
type SystemStatus struct {
	Status    string           `json:"status"`
	Time      time.Time        `json:"time"`
	Providers []ProviderStatus `json:"providers"`
	Cache     *CacheStatus     `json:"cache,omitempty"`
}
