package resilience_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthroute/healthroute/internal/provider/resilience"
)

func newTestClient(t *testing.T, cfg resilience.ClientConfig) *resilience.Client {
	t.Helper()
	return resilience.NewClient(cfg)
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, resilience.DefaultClientConfig("test"))

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_Do_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, resilience.DefaultClientConfig("test"))

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// The 5xx response is surfaced to the caller after a single attempt.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := resilience.DefaultClientConfig("test")
	cfg.MaxRetries = 3
	cfg.InitialInterval = time.Millisecond
	client := newTestClient(t, cfg)

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Do_CircuitOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cbCfg := resilience.DefaultCircuitBreakerConfig("test")
	cfg := resilience.DefaultClientConfig("test")
	cfg.CircuitBreaker = &cbCfg

	client := newTestClient(t, cfg)

	// Trip the breaker: 5 consecutive failures at a 100% failure rate.
	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
		require.NoError(t, err)
		resp, doErr := client.Do(req)
		if doErr == nil {
			resp.Body.Close()
		}
	}

	assert.Equal(t, gobreaker.StateOpen, client.CircuitBreakerState())

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClient_RegistersWithRegistry(t *testing.T) {
	registry := resilience.NewRegistry()

	cfg := resilience.DefaultClientConfig("mapbox-directions")
	cfg.Registry = registry
	newTestClient(t, cfg)

	assert.Equal(t, 1, registry.ProviderCount())
	health := registry.GetHealth("mapbox-directions")
	require.NotNil(t, health)
	assert.True(t, health.IsHealthy())
}

func TestRegistry_RecordsOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := resilience.DefaultClientConfig("weather")
	cfg.Registry = registry
	client := newTestClient(t, cfg)

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	health := registry.GetHealth("weather")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)
}
