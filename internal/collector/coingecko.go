package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SurgeScope/internal/model"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// dollarQuotes are the quote currencies accepted when listing markets.
// Cross pairs and non-dollar fiat quotes are filtered out.
var dollarQuotes = map[string]bool{
	"USD": true, "USDT": true, "USDC": true, "BUSD": true, "DAI": true,
}

// Market is one exchange listing for a coin.
type Market struct {
	Exchange string
	Symbol   string // e.g. "BTC/USDT"
}

// CoinGeckoClient talks to the CoinGecko public API. The free tier is
// aggressively rate limited, so all calls go through a shared limiter.
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewCoinGeckoClient creates a client with optional proxy support.
func NewCoinGeckoClient(proxyURL string) *CoinGeckoClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoClient{
		baseURL: coingeckoBaseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		// Free tier allows ~10-30 calls/minute.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 2),
	}
}

func (c *CoinGeckoClient) Name() string { return "coingecko" }

func (c *CoinGeckoClient) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("coingecko decode: %w", err)
	}
	return nil
}

// ResolveCoinID maps a ticker symbol to a CoinGecko coin ID.
func (c *CoinGeckoClient) ResolveCoinID(ctx context.Context, ticker string) (string, error) {
	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := c.get(ctx, "/coins/list", &coins); err != nil {
		return "", err
	}
	lower := strings.ToLower(ticker)
	for _, coin := range coins {
		if coin.Symbol == lower {
			return coin.ID, nil
		}
	}
	return "", fmt.Errorf("ticker %s not found on coingecko", ticker)
}

// FetchCoinInfo returns the current USD price and circulating supply.
func (c *CoinGeckoClient) FetchCoinInfo(ctx context.Context, ticker string) (*model.CoinInfo, error) {
	id, err := c.ResolveCoinID(ctx, ticker)
	if err != nil {
		return nil, err
	}
	var data struct {
		MarketData struct {
			CurrentPrice      map[string]float64 `json:"current_price"`
			CirculatingSupply float64            `json:"circulating_supply"`
		} `json:"market_data"`
	}
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), &data); err != nil {
		return nil, err
	}
	price, ok := data.MarketData.CurrentPrice["usd"]
	if !ok || price <= 0 {
		return nil, fmt.Errorf("no usd price for %s", id)
	}
	return &model.CoinInfo{
		ID:                id,
		Symbol:            strings.ToUpper(ticker),
		PriceUSD:          price,
		CirculatingSupply: data.MarketData.CirculatingSupply,
	}, nil
}

// ListMarkets returns the exchanges listing the coin against a dollar
// quote, deduplicated by exchange.
func (c *CoinGeckoClient) ListMarkets(ctx context.Context, coinID string) ([]Market, error) {
	var data struct {
		Tickers []struct {
			Base   string `json:"base"`
			Target string `json:"target"`
			Market struct {
				Identifier string `json:"identifier"`
			} `json:"market"`
		} `json:"tickers"`
	}
	if err := c.get(ctx, "/coins/"+url.PathEscape(coinID)+"/tickers", &data); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var markets []Market
	for _, t := range data.Tickers {
		if !dollarQuotes[strings.ToUpper(t.Target)] {
			continue
		}
		if seen[t.Market.Identifier] {
			continue
		}
		seen[t.Market.Identifier] = true
		markets = append(markets, Market{
			Exchange: t.Market.Identifier,
			Symbol:   t.Base + "/" + t.Target,
		})
	}
	return markets, nil
}

// FetchDailyBars implements Fetcher as a last-resort fallback source. The
// OHLC endpoint has no volumes, so they are joined in from market_chart;
// beyond 90 days CoinGecko coarsens OHLC candles to 4-day granularity.
func (c *CoinGeckoClient) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error) {
	ticker := symbol
	if i := strings.Index(symbol, "/"); i > 0 {
		ticker = symbol[:i]
	}
	id, err := c.ResolveCoinID(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var ohlc [][]float64 // [ts_ms, open, high, low, close]
	path := fmt.Sprintf("/coins/%s/ohlc?vs_currency=usd&days=%d", url.PathEscape(id), days)
	if err := c.get(ctx, path, &ohlc); err != nil {
		return nil, err
	}

	var chart struct {
		TotalVolumes [][]float64 `json:"total_volumes"`
	}
	path = fmt.Sprintf("/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily", url.PathEscape(id), days)
	if err := c.get(ctx, path, &chart); err != nil {
		return nil, err
	}
	volumeByDay := make(map[string]float64, len(chart.TotalVolumes))
	for _, v := range chart.TotalVolumes {
		if len(v) < 2 {
			continue
		}
		key := time.UnixMilli(int64(v[0])).UTC().Format("2006-01-02")
		volumeByDay[key] = v[1]
	}

	bars := make([]model.DailyBar, 0, len(ohlc))
	for _, row := range ohlc {
		if len(row) < 5 {
			continue
		}
		date := time.UnixMilli(int64(row[0])).UTC()
		bars = append(bars, model.DailyBar{
			Date:   date,
			Open:   row[1],
			High:   row[2],
			Low:    row[3],
			Close:  row[4],
			Volume: volumeByDay[date.Format("2006-01-02")],
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
