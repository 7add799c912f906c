package airquality

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/healthroute/healthroute/internal/telemetry"
)

// DefaultMaxEntries bounds the cache size. At 0.001-degree cells this covers
// far more area than any realistic set of routes before eviction starts.
const DefaultMaxEntries = 100_000

// CacheConfig holds configuration for the grid cache.
type CacheConfig struct {
	// Provider is the air quality data provider consulted on cache misses.
	Provider Provider

	// Logger for cache operations.
	Logger zerolog.Logger

	// MaxEntries bounds the number of cached cells (default: DefaultMaxEntries).
	// The oldest insertion is evicted when the bound is reached.
	MaxEntries int

	// Metrics receives cache hit/miss and fetch duration samples (optional).
	Metrics *telemetry.ProviderMetrics
}

// GridCache deduplicates pollution lookups by spatial grid cell. Entries are
// created on first miss and live for the lifetime of the process (bounded by
// MaxEntries); the cache is shared across concurrent requests so overlapping
// route segments never refetch the same cell.
//
// Concurrent misses on the same key share a single in-flight fetch.
type GridCache struct {
	provider   Provider
	logger     zerolog.Logger
	maxEntries int
	metrics    *telemetry.ProviderMetrics

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]Reading
	order   []string // insertion order, oldest first

	hits   atomic.Int64
	misses atomic.Int64
}

// NewGridCache creates a new grid cache.
func NewGridCache(cfg CacheConfig) *GridCache {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &GridCache{
		provider:   cfg.Provider,
		logger:     cfg.Logger,
		maxEntries: maxEntries,
		metrics:    cfg.Metrics,
		entries:    make(map[string]Reading),
	}
}

// GetOrFetch returns the reading for the grid cell containing the coordinate,
// fetching from the provider on a miss. Concurrent callers missing on the
// same cell await one shared fetch rather than issuing duplicate calls.
func (c *GridCache) GetOrFetch(ctx context.Context, lat, lon float64) (Reading, error) {
	key := GridKeyFor(lat, lon)

	c.mu.RLock()
	reading, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		if c.metrics != nil {
			c.metrics.RecordCacheHit(c.provider.Name())
		}
		return reading, nil
	}

	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(c.provider.Name())
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A completed flight may have stored the cell between our read and
		// this call.
		c.mu.RLock()
		stored, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return stored, nil
		}

		start := time.Now()
		pm25, fetchErr := c.provider.FetchPM25(ctx, lat, lon)
		if c.metrics != nil {
			c.metrics.RecordRequest(c.provider.Name(), "fetch_pm25", time.Since(start), fetchErr)
		}
		if fetchErr != nil {
			c.logger.Error().Err(fetchErr).
				Str("grid_key", key).
				Msg("failed to fetch pollution reading")
			return Reading{}, fetchErr
		}

		fresh := Reading{PM25: pm25}
		c.store(key, fresh)

		c.logger.Debug().
			Str("grid_key", key).
			Float64("pm25", pm25).
			Msg("cached pollution reading")

		return fresh, nil
	})
	if err != nil {
		return Reading{}, err
	}

	return v.(Reading), nil
}

// store inserts a reading, evicting the oldest insertion when full.
func (c *GridCache) store(key string, reading Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = reading
	c.order = append(c.order, key)
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries    int
	MaxEntries int
	Hits       int64
	Misses     int64
	Provider   string
}

// Stats returns current cache statistics.
func (c *GridCache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries:    entries,
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Provider:   c.provider.Name(),
	}
}
