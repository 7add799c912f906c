package routing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthroute/healthroute/internal/routing"
)

// mockProvider is a mock routing provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	routes    []routing.Route
	err       error
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) GetRoutes(_ context.Context, _, _ routing.Coordinate) ([]routing.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.routes, nil
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func newService(provider routing.Provider) *routing.Service {
	return routing.NewService(routing.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})
}

var (
	from = routing.Coordinate{Lat: 12.9716, Lon: 77.5946}
	to   = routing.Coordinate{Lat: 13.1986, Lon: 77.7066}
)

func TestService_GetRoutes(t *testing.T) {
	provider := &mockProvider{routes: []routing.Route{
		{ID: "a", GeometryPolyline: "_p~iF~ps|U", DurationSeconds: 1800, DistanceMeters: 35000, Summary: "NH 44"},
		{ID: "b", GeometryPolyline: "_p~iF~ps|V", DurationSeconds: 2100, DistanceMeters: 33000, Summary: "Old Airport Rd"},
	}}

	routes, err := newService(provider).GetRoutes(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, routes, 2)
	assert.Equal(t, "a", routes[0].ID)
}

func TestService_GetRoutes_EmptyIsNoRouteFound(t *testing.T) {
	provider := &mockProvider{}
	_, err := newService(provider).GetRoutes(context.Background(), from, to)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}

func TestService_GetRoutes_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{}
	_, err := newService(provider).GetRoutes(context.Background(),
		routing.Coordinate{Lat: 91, Lon: 0}, to)
	assert.ErrorIs(t, err, routing.ErrInvalidCoordinates)
	assert.Equal(t, 0, provider.getCallCount())
}

func TestService_GetRoutes_ProviderErrorNotRetried(t *testing.T) {
	provider := &mockProvider{err: errors.New("boom")}
	_, err := newService(provider).GetRoutes(context.Background(), from, to)
	require.Error(t, err)
	assert.Equal(t, 1, provider.getCallCount())
}
