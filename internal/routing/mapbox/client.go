// Package mapbox provides a client for the Mapbox Directions API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/provider/resilience"
	"github.com/healthroute/healthroute/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "mapbox-directions"

	// DefaultBaseURL is the Mapbox API base URL.
	DefaultBaseURL = "https://api.mapbox.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Mapbox directions client.
type ClientConfig struct {
	// AccessToken is the Mapbox access token (required).
	AccessToken string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Mapbox Directions API client.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new Mapbox directions client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout != 0 {
			clientCfg.Timeout = cfg.Timeout
		}
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// directionsResponse is the subset of the Mapbox response we read.
// Geometry is an encoded polyline because the request asks for
// geometries=polyline.
type directionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
		Legs     []struct {
			Summary string `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetRoutes fetches driving routes with alternatives. The "NoRoute" and
// "NoSegment" response codes map to an empty result rather than an error,
// leaving the no-route decision to the caller.
func (c *Client) GetRoutes(ctx context.Context, from, to routing.Coordinate) ([]routing.Route, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("alternatives", "true")
	params.Set("overview", "full")
	params.Set("geometries", "polyline")

	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f?%s",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	// Mapbox reports NoRoute with a 200 and a code field; either way it is
	// an empty result, not a provider failure.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("routing provider returned status %d", resp.StatusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	var directions directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&directions); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "DECODE_FAILED",
			Message:  "decoding directions response",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	switch directions.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return nil, nil
	default:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     directions.Code,
			Message:  fmt.Sprintf("routing provider returned code %q", directions.Code),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	routes := make([]routing.Route, 0, len(directions.Routes))
	for _, r := range directions.Routes {
		summary := ""
		if len(r.Legs) > 0 {
			summary = r.Legs[0].Summary
		}
		routes = append(routes, routing.Route{
			ID:               uuid.NewString(),
			GeometryPolyline: r.Geometry,
			DurationSeconds:  r.Duration,
			DistanceMeters:   r.Distance,
			Summary:          summary,
		})
	}

	c.logger.Debug().
		Int("routes", len(routes)).
		Msg("directions request complete")

	return routes, nil
}
