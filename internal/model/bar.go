package model

import "time"

// DailyBar represents a single daily candlestick bar.
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CoinInfo holds point-in-time market data for a token.
type CoinInfo struct {
	ID                string
	Symbol            string
	PriceUSD          float64
	CirculatingSupply float64
}

// Snapshot bundles everything the analysis pipeline needs for one run.
type Snapshot struct {
	Info      *CoinInfo
	Series    map[string][]DailyBar // keyed by source name
	FetchedAt time.Time
}
