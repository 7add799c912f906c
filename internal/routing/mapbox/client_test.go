package mapbox_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthroute/healthroute/internal/routing"
	"github.com/healthroute/healthroute/internal/routing/mapbox"
)

func newClient(serverURL string) *mapbox.Client {
	return mapbox.NewClient(mapbox.ClientConfig{
		AccessToken: "test-token",
		BaseURL:     serverURL,
		HTTPClient:  http.DefaultClient,
		Logger:      zerolog.Nop(),
	})
}

var (
	from = routing.Coordinate{Lat: 12.9716, Lon: 77.5946}
	to   = routing.Coordinate{Lat: 13.1986, Lon: 77.7066}
)

func TestClient_GetRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		wantPath := fmt.Sprintf("/directions/v5/mapbox/driving/%f,%f;%f,%f",
			from.Lon, from.Lat, to.Lon, to.Lat)
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "true", r.URL.Query().Get("alternatives"))
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [
				{"geometry": "_p~iF~ps|U_ulLnnqC", "duration": 1800.5, "distance": 35200.0,
				 "legs": [{"summary": "NH 44, Ballari Road"}]},
				{"geometry": "_p~iF~ps|U_c_\\fhde@", "duration": 2100.0, "distance": 33100.0,
				 "legs": [{"summary": "Old Airport Road"}]}
			]
		}`))
	}))
	defer server.Close()

	routes, err := newClient(server.URL).GetRoutes(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.NotEmpty(t, routes[0].ID)
	assert.NotEqual(t, routes[0].ID, routes[1].ID)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC", routes[0].GeometryPolyline)
	assert.Equal(t, 1800.5, routes[0].DurationSeconds)
	assert.Equal(t, 35200.0, routes[0].DistanceMeters)
	assert.Equal(t, "NH 44, Ballari Road", routes[0].Summary)
}

func TestClient_GetRoutes_NoRouteCodes(t *testing.T) {
	for _, code := range []string{"NoRoute", "NoSegment"} {
		t.Run(code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(fmt.Sprintf(`{"code": %q, "routes": []}`, code)))
			}))
			defer server.Close()

			routes, err := newClient(server.URL).GetRoutes(context.Background(), from, to)
			require.NoError(t, err)
			assert.Empty(t, routes)
		})
	}
}

func TestClient_GetRoutes_ErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "InvalidInput", "routes": []}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetRoutes(context.Background(), from, to)
	require.Error(t, err)
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)

	var rErr *routing.Error
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "InvalidInput", rErr.Code)
}

func TestClient_GetRoutes_HTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetRoutes(context.Background(), from, to)
	require.Error(t, err)
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}
