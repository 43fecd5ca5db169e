package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dexhound/dexhound/internal/metrics"
)

const maxBodyBytes = 1 << 20

// providerResponse is the defensive wire shape for the balance endpoint.
type providerResponse struct {
	NativeBalance float64 `json:"native_balance"`
	TxCount       int     `json:"tx_count"`
	Result        []struct {
		Symbol   string  `json:"symbol"`
		Balance  float64 `json:"balance_formatted"`
		UsdValue float64 `json:"usd_value"`
	} `json:"result"`
}

// Router fetches wallet portfolios per chain with the same two-strategy
// resilience and TTL+coalescing cache shape as the market scan path. An
// empty provider answer degrades to the deterministic synthetic snapshot,
// never to an error.
type Router struct {
	cfg  Config
	http *http.Client
	ttl  time.Duration

	mu      sync.RWMutex
	cache   map[string]cachedSnapshot
	group   singleflight.Group
	metrics *metrics.Registry
	logger  zerolog.Logger
	now     func() time.Time
}

type cachedSnapshot struct {
	snap    Snapshot
	expires time.Time
}

// NewRouter builds a router from portfolio configuration.
func NewRouter(cfg Config, ttl time.Duration, reg *metrics.Registry) *Router {
	return &Router{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
		ttl:     ttl,
		cache:   make(map[string]cachedSnapshot),
		metrics: reg,
		logger:  log.With().Str("component", "portfolio").Logger(),
		now:     time.Now,
	}
}

// Fetch returns the portfolio snapshot for a wallet, cached for the
// configured TTL with one shared in-flight fetch per key.
func (r *Router) Fetch(ctx context.Context, chain, address string) (Snapshot, error) {
	base, ok := r.cfg.Providers[chain]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownChain, chain)
	}

	key := chain + ":" + address
	r.mu.RLock()
	if c, ok := r.cache[key]; ok && r.now().Before(c.expires) {
		r.mu.RUnlock()
		return c.snap, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		if c, ok := r.cache[key]; ok && r.now().Before(c.expires) {
			r.mu.RUnlock()
			return c.snap, nil
		}
		r.mu.RUnlock()

		snap := r.fetchProvider(ctx, base, chain, address)
		if snap.Empty() {
			// ProviderDegraded: nothing came back, generate the tagged
			// synthetic placeholder instead of serving a blank wallet.
			r.metrics.SyntheticPortfolios.Inc()
			r.logger.Warn().Str("chain", chain).Str("address", address).
				Msg("provider returned empty portfolio, using synthetic fallback")
			snap = Synthetic(chain, address, r.now())
		}

		r.mu.Lock()
		r.cache[key] = cachedSnapshot{snap: snap, expires: r.now().Add(r.ttl)}
		r.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// fetchProvider tries the direct provider call, then the relay. All failure
// modes collapse into an empty snapshot for the fallback check above.
func (r *Router) fetchProvider(ctx context.Context, base, chain, address string) Snapshot {
	direct := fmt.Sprintf("%s/wallets/%s/tokens?chain=%s", base, url.PathEscape(address), url.QueryEscape(chain))
	relay := r.cfg.ProxyURL + "?url=" + url.QueryEscape(direct)

	for _, target := range []string{direct, relay} {
		decoded, err := r.tryFetch(ctx, target)
		if err != nil {
			r.logger.Debug().Err(err).Str("chain", chain).Msg("portfolio fetch attempt failed")
			continue
		}

		snap := Snapshot{
			Chain:         chain,
			Address:       address,
			NativeBalance: decoded.NativeBalance,
			TxCount:       decoded.TxCount,
			FetchedAt:     r.now(),
		}
		for _, t := range decoded.Result {
			snap.Holdings = append(snap.Holdings, Holding{
				Symbol:   t.Symbol,
				Amount:   t.Balance,
				UsdValue: t.UsdValue,
			})
			snap.TotalUsd += t.UsdValue
		}
		return snap
	}
	return Snapshot{Chain: chain, Address: address, FetchedAt: r.now()}
}

func (r *Router) tryFetch(ctx context.Context, target string) (*providerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
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

	var decoded providerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return &decoded, nil
}
