// Package yahoo fetches daily price history from the Yahoo Finance v8
// chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"resty.dev/v3"

	"stockmotion/internal/provider"
)

// DefaultBaseURL is the production Yahoo Finance endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// chartResponse mirrors the v8 chart API payload. Quote arrays carry
// nulls on non-trading days, hence the pointer elements.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client fetches history for any symbol from one Yahoo-compatible endpoint.
type Client struct {
	client *resty.Client
}

// New creates a Yahoo Finance client. baseURL is overridable for tests.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{client: provider.NewHTTPClient(baseURL)}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "yahoo" }

// History implements provider.Provider. Null bars (holidays, halts) are
// skipped; the result is sorted by date ascending.
func (c *Client) History(ctx context.Context, symbol string, start, end time.Time) ([]provider.Bar, error) {
	var result chartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"period1":  strconv.FormatInt(start.Unix(), 10),
			"period2":  strconv.FormatInt(end.Unix(), 10),
			"events":   "history",
		}).
		SetResult(&result).
		Get("/v8/finance/chart/{symbol}")

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("fetch history for %s: %w", symbol, provider.TimeoutError(err))
		}
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, provider.NetworkError(err))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, provider.ClassifyStatus(resp.StatusCode()))
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol,
			provider.ValidationError(fmt.Sprintf("yahoo api error: %s", result.Chart.Error.Description)))
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol,
			provider.ValidationError("empty chart result"))
	}

	chart := result.Chart.Result[0]
	if len(chart.Timestamp) == 0 {
		// No trading days in range: a valid, empty series.
		return nil, nil
	}
	if len(chart.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol,
			provider.ValidationError("chart result has no quote data"))
	}

	quote := chart.Indicators.Quote[0]
	bars := make([]provider.Bar, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		b := provider.Bar{Date: time.Unix(ts, 0).UTC()}
		if v := at(quote.Open, i); v != nil {
			b.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			b.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			b.Low = *v
		}
		if v := at(quote.Close, i); v != nil {
			b.Close = *v
		}
		if v := at(quote.Volume, i); v != nil {
			b.Volume = *v
		}
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue // null bar
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func at[T any](s []*T, i int) *T {
	if i >= len(s) {
		return nil
	}
	return s[i]
}
