package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"SurgeScope/internal/model"
)

const okxBaseURL = "https://www.okx.com"

// OKXFetcher fetches daily candles from the OKX v5 REST API.
type OKXFetcher struct {
	baseURL string
	client  *http.Client
}

// NewOKXFetcher creates a fetcher with optional proxy support.
func NewOKXFetcher(proxyURL string) *OKXFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OKXFetcher{
		baseURL: okxBaseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *OKXFetcher) Name() string { return "okx" }

// okxInstID converts "FURY/USDT" to OKX's "FURY-USDT" form.
func okxInstID(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", "-"))
}

type okxResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// FetchDailyBars pages backward through the history-candles endpoint
// until the requested range is covered. OKX returns newest-first pages of
// up to 100 candles.
func (f *OKXFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.DailyBar, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	var bars []model.DailyBar
	after := "" // pagination cursor: request candles older than this ts

	for {
		u := fmt.Sprintf("%s/api/v5/market/history-candles?instId=%s&bar=1Dutc&limit=100",
			f.baseURL, url.QueryEscape(okxInstID(symbol)))
		if after != "" {
			u += "&after=" + after
		}
		page, err := f.fetchPage(ctx, u)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		bars = append(bars, page...)

		oldest := page[len(page)-1]
		if oldest.Date.Before(cutoff) {
			break
		}
		after = strconv.FormatInt(oldest.Date.UnixMilli(), 10)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (f *OKXFetcher) fetchPage(ctx context.Context, u string) ([]model.DailyBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("okx fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("okx: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out okxResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("okx decode: %w", err)
	}
	if out.Code != "0" {
		return nil, fmt.Errorf("okx api error %s: %s", out.Code, out.Msg)
	}

	bars := make([]model.DailyBar, 0, len(out.Data))
	for _, row := range out.Data {
		// [ts, open, high, low, close, vol, ...]
		if len(row) < 6 {
			continue
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("okx candle ts: %w", err)
		}
		fields := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("okx candle field %d: %w", i, err)
			}
			fields[i-1] = v
		}
		bars = append(bars, model.DailyBar{
			Date:   time.UnixMilli(ts).UTC(),
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}
	return bars, nil
}
