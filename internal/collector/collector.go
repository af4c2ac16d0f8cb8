package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"SurgeScope/internal/model"
)

// Collector orchestrates market data acquisition for one token: coin info
// from CoinGecko, then daily history from every supported exchange that
// lists the token against a dollar quote, with CoinGecko itself as the
// fallback source when no exchange delivers.
type Collector struct {
	Gecko    *CoinGeckoClient
	Fetchers map[string]Fetcher // keyed by exchange identifier
	Days     int
}

// NewCollector wires up fetchers for the configured exchange names.
// Unsupported names are logged and skipped.
func NewCollector(gecko *CoinGeckoClient, exchanges []string, days int, proxyURL string) *Collector {
	fetchers := make(map[string]Fetcher)
	for _, name := range exchanges {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "binance":
			fetchers["binance"] = NewBinanceFetcher(proxyURL)
		case "okx":
			fetchers["okx"] = NewOKXFetcher(proxyURL)
		default:
			log.Warn().Str("exchange", name).Msg("unsupported exchange, skipping")
		}
	}
	return &Collector{Gecko: gecko, Fetchers: fetchers, Days: days}
}

// Collect fetches coin info and per-exchange daily series. Exchange
// series are fetched concurrently; each series is independent and the
// caller pools analysis results afterwards.
func (c *Collector) Collect(ctx context.Context, ticker string) (*model.Snapshot, error) {
	info, err := c.Gecko.FetchCoinInfo(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch coin info: %w", err)
	}

	markets, err := c.Gecko.ListMarkets(ctx, info.ID)
	if err != nil {
		log.Warn().Err(err).Str("coin", info.ID).Msg("market listing failed, assuming USDT pair")
		for name := range c.Fetchers {
			markets = append(markets, Market{Exchange: name, Symbol: info.Symbol + "/USDT"})
		}
	}

	series := make(map[string][]model.DailyBar)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, m := range markets {
		fetcher, ok := c.Fetchers[m.Exchange]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(m Market, fetcher Fetcher) {
			defer wg.Done()
			bars, err := fetcher.FetchDailyBars(ctx, m.Symbol, c.Days)
			if err != nil {
				log.Warn().Err(err).Str("exchange", m.Exchange).Str("symbol", m.Symbol).
					Msg("exchange fetch failed")
				return
			}
			if len(bars) == 0 {
				return
			}
			mu.Lock()
			series[m.Exchange] = bars
			mu.Unlock()
			log.Debug().Str("exchange", m.Exchange).Int("bars", len(bars)).Msg("series fetched")
		}(m, fetcher)
	}
	wg.Wait()

	if len(series) == 0 {
		log.Warn().Str("ticker", ticker).Msg("no listed exchange delivered, trying fallback chain")
		chain := make([]Fetcher, 0, len(c.Fetchers)+1)
		for _, f := range c.Fetchers {
			chain = append(chain, f)
		}
		chain = append(chain, c.Gecko)
		bars, err := NewFallbackFetcher(chain...).FetchDailyBars(ctx, info.Symbol+"/USDT", c.Days)
		if err != nil {
			return nil, fmt.Errorf("fallback fetch: %w", err)
		}
		series["fallback"] = bars
	}

	return &model.Snapshot{
		Info:      info,
		Series:    series,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// MockFetcher returns fixed data for development and testing.
type MockFetcher struct {
	Bars []model.DailyBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.DailyBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars := m.Bars
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
