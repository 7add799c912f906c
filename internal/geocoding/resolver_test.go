package geocoding_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthroute/healthroute/internal/geocoding"
)

// mockProvider is a mock geocoding provider for testing.
type mockProvider struct {
	mu            sync.Mutex
	callCount     int
	matches       []geocoding.Match
	err           error
	lastQuery     string
	lastProximity *geocoding.Coordinate
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) Search(_ context.Context, query string, proximity *geocoding.Coordinate) ([]geocoding.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastQuery = query
	m.lastProximity = proximity
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func newResolver(provider geocoding.Provider) *geocoding.Resolver {
	return geocoding.NewResolver(geocoding.ResolverConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})
}

func TestResolver_LiteralCoordinatesSkipProvider(t *testing.T) {
	tests := []struct {
		query   string
		wantLat float64
		wantLon float64
	}{
		{query: "12.9716, 77.5946", wantLat: 12.9716, wantLon: 77.5946},
		{query: "-33.8688,151.2093", wantLat: -33.8688, wantLon: 151.2093},
		{query: "  52.37 , 4.895  ", wantLat: 52.37, wantLon: 4.895},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			provider := &mockProvider{}
			coord, err := newResolver(provider).Resolve(context.Background(), tt.query, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, coord.Lat)
			assert.Equal(t, tt.wantLon, coord.Lon)
			assert.Equal(t, 0, provider.getCallCount(), "literal queries must not hit the provider")
		})
	}
}

func TestResolver_LiteralCoordinatesOutOfRange(t *testing.T) {
	provider := &mockProvider{}
	_, err := newResolver(provider).Resolve(context.Background(), "95.0, 10.0", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, geocoding.ErrInvalidCoordinates)
	assert.Equal(t, 0, provider.getCallCount())
}

func TestResolver_FreeTextUsesTopMatch(t *testing.T) {
	provider := &mockProvider{matches: []geocoding.Match{
		{Coordinate: geocoding.Coordinate{Lat: 12.9716, Lon: 77.5946}, PlaceName: "Bengaluru", Relevance: 0.98},
		{Coordinate: geocoding.Coordinate{Lat: 13.0, Lon: 77.6}, PlaceName: "Bengaluru Rural", Relevance: 0.7},
	}}

	coord, err := newResolver(provider).Resolve(context.Background(), "bengaluru", nil)
	require.NoError(t, err)
	assert.Equal(t, 12.9716, coord.Lat)
	assert.Equal(t, 77.5946, coord.Lon)
	assert.Equal(t, 1, provider.getCallCount())
}

func TestResolver_ProximityPassedThrough(t *testing.T) {
	provider := &mockProvider{matches: []geocoding.Match{
		{Coordinate: geocoding.Coordinate{Lat: 1, Lon: 2}},
	}}
	proximity := &geocoding.Coordinate{Lat: 12.97, Lon: 77.59}

	_, err := newResolver(provider).Resolve(context.Background(), "airport", proximity)
	require.NoError(t, err)
	assert.Equal(t, proximity, provider.lastProximity)
	assert.Equal(t, "airport", provider.lastQuery)
}

func TestResolver_NoMatches(t *testing.T) {
	provider := &mockProvider{}
	_, err := newResolver(provider).Resolve(context.Background(), "xyzzy nowhere", nil)
	assert.ErrorIs(t, err, geocoding.ErrLocationNotFound)
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	provider := &mockProvider{err: geocoding.ErrProviderUnavailable}
	_, err := newResolver(provider).Resolve(context.Background(), "bengaluru", nil)
	assert.ErrorIs(t, err, geocoding.ErrProviderUnavailable)
	assert.False(t, errors.Is(err, geocoding.ErrLocationNotFound))
}
