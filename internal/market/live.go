package market

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

	"StockPulse/internal/model"
)

// LiveFetcher implements Fetcher against a financial-data REST API that
// authenticates with a query-string API key.
type LiveFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewLiveFetcher creates a fetcher with optional proxy support.
func NewLiveFetcher(baseURL, apiKey, proxyURL string) *LiveFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &LiveFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *LiveFetcher) Name() string { return "live" }

// providerQuote is the per-symbol quote shape from the provider.
type providerQuote struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	DayHigh           float64 `json:"dayHigh"`
	DayLow            float64 `json:"dayLow"`
	Volume            float64 `json:"volume"`
	MarketCap         float64 `json:"marketCap"`
}

// providerError is the marker payload the provider substitutes for data when
// the key is over quota or the symbol is unknown.
type providerError struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
}

func (e *providerError) classify() error {
	msg := e.ErrorMessage + e.Note
	if msg == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(msg), "limit") {
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func (f *LiveFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v3/quote/%s?apikey=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(f.APIKey))

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return model.Quote{}, err
	}

	// The provider swaps the array payload for an error object on failure.
	var perr providerError
	if json.Unmarshal(body, &perr) == nil {
		if cerr := perr.classify(); cerr != nil {
			return model.Quote{}, cerr
		}
	}

	var quotes []providerQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return model.Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if len(quotes) == 0 {
		return model.Quote{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	q := quotes[0]
	return model.Quote{
		Symbol:        symbol,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		High:          q.DayHigh,
		Low:           q.DayLow,
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
	}, nil
}

// providerHistory is the historical series shape from the provider,
// newest-first.
type providerHistory struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"historical"`
}

func (f *LiveFetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]model.HistoricalPoint, error) {
	if days <= 0 || days > HistoryWindow {
		days = HistoryWindow
	}
	endpoint := fmt.Sprintf("%s/api/v3/historical-price-full/%s?timeseries=%d&apikey=%s",
		f.BaseURL, url.PathEscape(symbol), days, url.QueryEscape(f.APIKey))

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var perr providerError
	if json.Unmarshal(body, &perr) == nil {
		if cerr := perr.classify(); cerr != nil {
			return nil, cerr
		}
	}

	var hist providerHistory
	if err := json.Unmarshal(body, &hist); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(hist.Historical) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	points := make([]model.HistoricalPoint, 0, len(hist.Historical))
	for _, h := range hist.Historical {
		t, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue // skip malformed rows rather than failing the series
		}
		points = append(points, model.HistoricalPoint{
			Timestamp: t.UnixMilli(),
			Price:     h.Close,
			Volume:    h.Volume,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	if len(points) > days {
		points = points[len(points)-days:]
	}
	return points, nil
}

func (f *LiveFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("provider read body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status 429", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
