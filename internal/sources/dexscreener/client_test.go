package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/metrics"
)

const validBody = `{
	"schemaVersion": "1.0.0",
	"pairs": [{
		"chainId": "solana",
		"pairAddress": "pair1",
		"baseToken": {"address": "addr1", "name": "Token One", "symbol": "ONE"},
		"priceUsd": "0.042",
		"txns": {"h24": {"buys": 120, "sells": 80}},
		"volume": {"h24": 150000},
		"priceChange": {"h1": 2.5, "h6": -1.0, "h24": 12.0},
		"liquidity": {"usd": 75000},
		"fdv": 900000,
		"pairCreatedAt": 1756500000000,
		"info": {"imageUrl": "https://img.example/one.png"}
	}, {
		"chainId": "solana",
		"pairAddress": "pair2",
		"baseToken": {"address": "addr2", "name": "Thin Pair", "symbol": "TWO"},
		"priceUsd": "1.5",
		"txns": {"h24": {"buys": 0, "sells": 0}},
		"volume": {"h24": 0},
		"priceChange": {}
	}]
}`

func testClient(baseURL, proxyURL string) *Client {
	return NewClient(Config{
		BaseURL:           baseURL,
		ProxyURL:          proxyURL,
		RequestTimeoutSec: 2,
		RatePerMinute:     6000,
	}, metrics.New())
}

func TestSearchDirectStrategy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "pepe", r.URL.Query().Get("q"))
		w.Write([]byte(validBody))
	}))
	defer upstream.Close()

	c := testClient(upstream.URL, "http://127.0.0.1:0")
	listings := c.Search(context.Background(), "pepe")
	require.Len(t, listings, 2)

	one := listings[0]
	assert.Equal(t, "ONE", one.TokenSymbol)
	assert.Equal(t, "addr1", one.TokenAddress)
	assert.Equal(t, 75000.0, one.LiquidityUsd)
	assert.Equal(t, 120, one.Buys24h)
	assert.Equal(t, 12.0, one.Change24h)
	assert.Equal(t, "https://img.example/one.png", one.ImageURL)
	assert.False(t, one.PairCreatedAt.IsZero())

	// Thin pair: missing liquidity, info and creation time all default.
	two := listings[1]
	assert.Zero(t, two.LiquidityUsd)
	assert.Empty(t, two.ImageURL)
	assert.True(t, two.PairCreatedAt.IsZero())
}

func TestSearchFallsBackToRelay(t *testing.T) {
	var relayHits int32
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&relayHits, 1)
		assert.NotEmpty(t, r.URL.Query().Get("url"), "relay receives the original URL as a parameter")
		w.Write([]byte(validBody))
	}))
	defer relay.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	c := testClient(broken.URL, relay.URL)
	listings := c.Search(context.Background(), "pepe")
	assert.Len(t, listings, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&relayHits))
}

func TestSearchInvalidBodyFallsThrough(t *testing.T) {
	// 200 with no pairs field is structurally invalid and must not be
	// accepted even though the status is a success.
	noPairs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schemaVersion": "1.0.0"}`))
	}))
	defer noPairs.Close()

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validBody))
	}))
	defer relay.Close()

	c := testClient(noPairs.URL, relay.URL)
	assert.Len(t, c.Search(context.Background(), "x"), 2)
}

func TestSearchAllStrategiesFailReturnsEmpty(t *testing.T) {
	c := testClient("http://127.0.0.1:0", "http://127.0.0.1:0")
	listings := c.Search(context.Background(), "anything")
	assert.Empty(t, listings)
}

func TestSearchEmptyPairsArrayIsValid(t *testing.T) {
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"schemaVersion": "1.0.0", "pairs": []}`))
	}))
	defer upstream.Close()

	c := testClient(upstream.URL, "http://127.0.0.1:0")
	assert.Empty(t, c.Search(context.Background(), "x"))
	// The empty-but-present array was accepted; no fallback attempt.
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
