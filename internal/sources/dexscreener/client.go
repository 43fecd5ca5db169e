package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
)

const maxBodyBytes = 4 << 20

// Config configures the upstream market-data source client.
type Config struct {
	BaseURL           string `yaml:"base_url"`
	ProxyURL          string `yaml:"proxy_url"` // CORS relay, second strategy
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	RatePerMinute     int    `yaml:"rate_per_minute"`
}

// strategy is one way of reaching the search endpoint. Strategies are tried
// in order; the first to return a success status with a recognizable pairs
// array wins.
type strategy struct {
	name     string
	buildURL func(query string) string
}

// Client fetches search results from the upstream source with an ordered
// strategy chain (direct call, then CORS relay). Search never returns an
// error: all failure modes degrade to an empty result so the loss of one
// query cannot abort a scan.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	strategies []strategy
	breakers   map[string]*gobreaker.CircuitBreaker
	metrics    *metrics.Registry
	logger     zerolog.Logger
}

// NewClient builds a client from upstream configuration.
func NewClient(cfg Config, reg *metrics.Registry) *Client {
	direct := func(query string) string {
		return cfg.BaseURL + "/latest/dex/search?q=" + url.QueryEscape(query)
	}
	relay := func(query string) string {
		return cfg.ProxyURL + "?url=" + url.QueryEscape(direct(query))
	}

	c := &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.RatePerMinute/10+1),
		strategies: []strategy{
			{name: "direct", buildURL: direct},
			{name: "relay", buildURL: relay},
		},
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		metrics:  reg,
		logger:   log.With().Str("component", "dexscreener").Logger(),
	}

	for _, s := range c.strategies {
		c.breakers[s.name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        s.name,
			MaxRequests: 2,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}
	return c
}

// Search issues one logical query against the upstream search endpoint.
// It tries each transport strategy until one yields a structurally valid
// response and returns an empty slice when every strategy fails.
func (c *Client) Search(ctx context.Context, query string) []domain.RawListing {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Debug().Str("query", query).Msg("rate limiter wait aborted")
		return nil
	}

	for _, s := range c.strategies {
		pairs, err := c.trySearch(ctx, s, query)
		if err != nil {
			c.metrics.FetchAttempts.WithLabelValues(s.name, "error").Inc()
			c.logger.Debug().Err(err).Str("strategy", s.name).Str("query", query).
				Msg("fetch strategy failed, trying next")
			continue
		}
		c.metrics.FetchAttempts.WithLabelValues(s.name, "ok").Inc()

		listings := make([]domain.RawListing, 0, len(pairs))
		for _, p := range pairs {
			listings = append(listings, p.toListing())
		}
		return listings
	}

	c.logger.Warn().Str("query", query).Msg("all fetch strategies failed")
	return nil
}

// trySearch runs one strategy through its circuit breaker. A structurally
// invalid body (no pairs array field) counts as a failure even on HTTP 200.
func (c *Client) trySearch(ctx context.Context, s strategy, query string) ([]wirePair, error) {
	result, err := c.breakers[s.name].Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildURL(query), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}

		var decoded searchResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("failed to decode body: %w", err)
		}
		if decoded.Pairs == nil {
			return nil, fmt.Errorf("response has no pairs field")
		}
		return decoded.Pairs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]wirePair), nil
}
