package portfolio

import (
	"errors"
	"time"
)

// ErrUnknownChain is returned for chains with no configured provider.
var ErrUnknownChain = errors.New("no provider configured for chain")

// Config configures the portfolio collaborator.
type Config struct {
	Providers         map[string]string `yaml:"providers"` // chain -> provider base URL
	ProxyURL          string            `yaml:"proxy_url"` // CORS relay, second strategy
	RequestTimeoutSec int               `yaml:"request_timeout_sec"`
}

// Holding is one token position inside a snapshot.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	UsdValue float64 `json:"usd_value"`
}

// Snapshot is one wallet's aggregated portfolio on one chain. IsSimulated
// marks synthetic fallback data; it is never silently indistinguishable
// from live provider data.
type Snapshot struct {
	Chain         string    `json:"chain"`
	Address       string    `json:"address"`
	NativeBalance float64   `json:"native_balance"`
	Holdings      []Holding `json:"holdings"`
	TxCount       int       `json:"tx_count"`
	TotalUsd      float64   `json:"total_usd"`
	IsSimulated   bool      `json:"is_simulated"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Empty reports whether the snapshot shows zero balances and zero activity,
// which is what triggers the synthetic fallback.
func (s Snapshot) Empty() bool {
	return s.NativeBalance == 0 && len(s.Holdings) == 0 && s.TxCount == 0
}
