package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"SurgeScope/internal/model"
)

// Fetcher defines the interface for fetching daily market history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error)
	Name() string
}

// FallbackFetcher tries an ordered list of fetchers until one returns data.
type FallbackFetcher struct {
	chain []Fetcher
}

// NewFallbackFetcher creates a fallback chain in the given order.
func NewFallbackFetcher(fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{chain: fetchers}
}

func (f *FallbackFetcher) Name() string { return "fallback" }

func (f *FallbackFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error) {
	var lastErr error
	for _, fetcher := range f.chain {
		bars, err := fetcher.FetchDailyBars(ctx, symbol, days)
		if err != nil {
			log.Warn().Err(err).Str("source", fetcher.Name()).Str("symbol", symbol).
				Msg("fetch failed, trying next source")
			lastErr = err
			continue
		}
		if len(bars) == 0 {
			lastErr = fmt.Errorf("%s: no data for %s", fetcher.Name(), symbol)
			continue
		}
		return bars, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no data sources configured")
	}
	return nil, fmt.Errorf("all sources failed for %s: %w", symbol, lastErr)
}
