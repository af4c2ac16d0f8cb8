package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SurgeScope/internal/model"
)

const binanceBaseURL = "https://api.binance.com"

// BinanceFetcher fetches daily klines from the Binance spot REST API.
type BinanceFetcher struct {
	baseURL string
	client  *http.Client
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(proxyURL string) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		baseURL: binanceBaseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol converts "FURY/USDT" to Binance's "FURYUSDT" form.
func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

// FetchDailyBars pages through the klines endpoint from the requested
// start until the present, 1000 candles per request.
func (f *BinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error) {
	start := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	var bars []model.DailyBar

	for {
		u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1d&limit=1000&startTime=%d",
			f.baseURL, url.QueryEscape(binanceSymbol(symbol)), start)
		batch, err := f.fetchPage(ctx, u)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		bars = append(bars, batch...)
		start = batch[len(batch)-1].Date.UnixMilli() + 24*time.Hour.Milliseconds()
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (f *BinanceFetcher) fetchPage(ctx context.Context, u string) ([]model.DailyBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	// Klines come back as mixed-type arrays: open time is a number, the
	// prices and volume are strings.
	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	bars := make([]model.DailyBar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("binance kline time: %w", err)
		}
		fields := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			var s string
			if err := json.Unmarshal(row[i], &s); err != nil {
				return nil, fmt.Errorf("binance kline field %d: %w", i, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("binance kline field %d: %w", i, err)
			}
			fields[i-1] = v
		}
		bars = append(bars, model.DailyBar{
			Date:   time.UnixMilli(openTime).UTC(),
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}
	return bars, nil
}
