package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/healthroute/healthroute/internal/airquality"
	"github.com/healthroute/healthroute/internal/api/models"
	"github.com/healthroute/healthroute/internal/api/response"
	"github.com/healthroute/healthroute/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	cache     *airquality.GridCache
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, cache *airquality.GridCache) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		cache:     cache,
	}
}

// HealthCheck handles GET /api/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /api/ops/ready - readiness check.
// The service holds no connections of its own, so ready follows alive.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /api/ops/status - provider and cache status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			total := ph.Counts.Requests
			errorRate := 0.0
			if total > 0 {
				errorRate = float64(ph.Counts.TotalFailures) / float64(total)
			}
			status.Providers = append(status.Providers, models.ProviderStatus{
				Provider:            ph.Name,
				Status:              providerStatusLabel(ph),
				CircuitBreakerState: ph.CircuitState.String(),
				SuccessCount:        int64(ph.Counts.TotalSuccesses),
				FailureCount:        int64(ph.Counts.TotalFailures),
				ErrorRate:           errorRate,
			})
			if ph.CircuitState != gobreaker.StateClosed {
				status.Status = "degraded"
			}
		}
	}

	if h.cache != nil {
		stats := h.cache.Stats()
		status.Cache = &models.CacheStatus{
			Entries:    stats.Entries,
			MaxEntries: stats.MaxEntries,
			Hits:       stats.Hits,
			Misses:     stats.Misses,
			Provider:   stats.Provider,
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatusLabel(ph *resilience.ProviderHealth) string {
	switch {
	case ph.IsUnhealthy():
		return "unhealthy"
	case ph.IsDegraded():
		return "degraded"
	default:
		return models.HealthStatusOK
	}
}
