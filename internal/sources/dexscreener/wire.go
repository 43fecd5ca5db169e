package dexscreener

import (
	"time"

	"github.com/dexhound/dexhound/internal/domain"
)

// Wire types for the search endpoint. Everything numeric that the upstream
// omits for thin pairs is a pointer or defaults to zero; the decode step is
// the only place in the engine that touches this shape.

type searchResponse struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pairs         []wirePair `json:"pairs"`
}

type wirePair struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     wireToken       `json:"baseToken"`
	QuoteToken    wireToken       `json:"quoteToken"`
	PriceUsd      string          `json:"priceUsd"`
	Txns          wireTxns        `json:"txns"`
	Volume        wireVolume      `json:"volume"`
	PriceChange   wirePriceChange `json:"priceChange"`
	Liquidity     *wireLiquidity  `json:"liquidity"`
	Fdv           float64         `json:"fdv"`
	PairCreatedAt int64           `json:"pairCreatedAt"` // unix millis, 0 when unknown
	Info          *wireInfo       `json:"info"`
}

type wireToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type wireTxns struct {
	H24 wireTxnSummary `json:"h24"`
}

type wireTxnSummary struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type wireVolume struct {
	H24 float64 `json:"h24"`
}

type wirePriceChange struct {
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type wireLiquidity struct {
	Usd float64 `json:"usd"`
}

type wireInfo struct {
	ImageURL string `json:"imageUrl"`
}

// toListing maps one wire pair to the internal record, defaulting every
// optional field so no pointer escapes this package.
func (p wirePair) toListing() domain.RawListing {
	l := domain.RawListing{
		ChainID:      p.ChainID,
		PairAddress:  p.PairAddress,
		TokenAddress: p.BaseToken.Address,
		TokenSymbol:  p.BaseToken.Symbol,
		TokenName:    p.BaseToken.Name,
		PriceUsd:     p.PriceUsd,
		Fdv:          p.Fdv,
		Volume24h:    p.Volume.H24,
		Buys24h:      p.Txns.H24.Buys,
		Sells24h:     p.Txns.H24.Sells,
		Change1h:     p.PriceChange.H1,
		Change6h:     p.PriceChange.H6,
		Change24h:    p.PriceChange.H24,
	}
	if p.Liquidity != nil {
		l.LiquidityUsd = p.Liquidity.Usd
	}
	if p.Info != nil {
		l.ImageURL = p.Info.ImageURL
	}
	if p.PairCreatedAt > 0 {
		l.PairCreatedAt = time.UnixMilli(p.PairCreatedAt).UTC()
	}
	return l
}
