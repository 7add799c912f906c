package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthroute/healthroute/internal/api"
	"github.com/healthroute/healthroute/internal/routing"
	"github.com/healthroute/healthroute/internal/scoring"
	"github.com/healthroute/healthroute/internal/trip"
	"github.com/healthroute/healthroute/pkg/polyline"
)

type mockPlanner struct {
	result *trip.PlanResult
	err    error
}

func (m *mockPlanner) Plan(_ context.Context, req trip.PlanRequest) (*trip.PlanResult, error) {
	if strings.TrimSpace(req.Start) == "" || strings.TrimSpace(req.End) == "" {
		return nil, trip.ErrMissingEndpoints
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newRouter(planner *mockPlanner) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Version:   "test",
		BuildTime: "now",
		Logger:    zerolog.Nop(),
		Planner:   planner,
	})
}

func plannedResult() *trip.PlanResult {
	geometry := polyline.Encode([]polyline.Coordinate{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 13.1986, Lon: 77.7066},
	})
	fast := scoring.ScoredRoute{
		Route:        routing.Route{ID: "fast", GeometryPolyline: geometry, Summary: "NH 44"},
		AvgPM25:      12,
		TempCelsius:  28,
		DurationMins: 30,
		DistanceKm:   35.2,
		HealthScore:  89,
	}
	slow := scoring.ScoredRoute{
		Route:        routing.Route{ID: "slow", GeometryPolyline: geometry, Summary: "Old Airport Rd"},
		AvgPM25:      9,
		TempCelsius:  28,
		DurationMins: 45,
		DistanceKm:   33.1,
		HealthScore:  87,
	}
	return &trip.PlanResult{Ranked: scoring.Ranked{
		Fastest:          &fast,
		Healthiest:       &fast,
		SecondHealthiest: &slow,
	}}
}

func postRoutes(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PlanRoutes(t *testing.T) {
	router := newRouter(&mockPlanner{result: plannedResult()})
	rec := postRoutes(t, router, `{"start": "home", "end": "work"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp struct {
		Fastest *struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			HealthScore int    `json:"healthScore"`
			Metrics     struct {
				PM25        float64 `json:"pm25"`
				TempCelsius float64 `json:"tempCelsius"`
			} `json:"metrics"`
			Geometry struct {
				Type        string       `json:"type"`
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"fastest"`
		Healthiest       json.RawMessage `json:"healthiest"`
		SecondHealthiest json.RawMessage `json:"secondHealthiest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Fastest)
	assert.Equal(t, "fast", resp.Fastest.ID)
	assert.Equal(t, "NH 44", resp.Fastest.Name)
	assert.Equal(t, 89, resp.Fastest.HealthScore)
	assert.Equal(t, 12.0, resp.Fastest.Metrics.PM25)
	assert.Equal(t, 28.0, resp.Fastest.Metrics.TempCelsius)

	assert.Equal(t, "LineString", resp.Fastest.Geometry.Type)
	require.Len(t, resp.Fastest.Geometry.Coordinates, 2)
	// GeoJSON positions are [lon, lat].
	assert.InDelta(t, 77.5946, resp.Fastest.Geometry.Coordinates[0][0], 1e-5)
	assert.InDelta(t, 12.9716, resp.Fastest.Geometry.Coordinates[0][1], 1e-5)

	assert.NotNil(t, resp.Healthiest)
	assert.NotNil(t, resp.SecondHealthiest)
}

func TestRouter_PlanRoutes_ErrorShapes(t *testing.T) {
	tests := []struct {
		name       string
		planner    *mockPlanner
		body       string
		wantStatus int
	}{
		{
			name:       "missing endpoints",
			planner:    &mockPlanner{},
			body:       `{"start": "", "end": ""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			planner:    &mockPlanner{},
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no route found",
			planner:    &mockPlanner{err: routing.ErrNoRouteFound},
			body:       `{"start": "home", "end": "work"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "provider failure",
			planner:    &mockPlanner{err: errors.New("upstream down")},
			body:       `{"start": "home", "end": "work"}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRoutes(t, newRouter(tt.planner), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"], "error responses carry an error message")
		})
	}
}

func TestRouter_PlanRoutes_RejectsNonJSONContentType(t *testing.T) {
	router := newRouter(&mockPlanner{result: plannedResult()})
	req := httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader("start=home"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	router := newRouter(&mockPlanner{})

	for _, path := range []string{"/api/ops/health", "/api/ops/ready", "/api/ops/status"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "ok", body["status"])
		})
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newRouter(&mockPlanner{})
	req := httptest.NewRequest(http.MethodGet, "/api/ops/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
