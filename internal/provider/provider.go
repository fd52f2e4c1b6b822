package provider

import (
	"context"
	"fmt"
	"time"
)

// Bar is a single daily price observation for one symbol.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Quote selects which price field of a Bar feeds a series.
type Quote string

const (
	QuoteOpen  Quote = "open"
	QuoteHigh  Quote = "high"
	QuoteLow   Quote = "low"
	QuoteClose Quote = "close"
)

// ParseQuote validates a quote column name from configuration.
func ParseQuote(s string) (Quote, error) {
	switch Quote(s) {
	case QuoteOpen, QuoteHigh, QuoteLow, QuoteClose:
		return Quote(s), nil
	}
	return "", fmt.Errorf("unknown quote column %q (want open, high, low or close)", s)
}

// Value extracts the selected price field from a bar.
func (q Quote) Value(b Bar) float64 {
	switch q {
	case QuoteOpen:
		return b.Open
	case QuoteLow:
		return b.Low
	case QuoteClose:
		return b.Close
	default:
		return b.High
	}
}

// Provider is the core interface all market-data sources implement.
// History returns daily bars for one symbol, sorted by date ascending.
// A date range with no observations yields an empty slice, not an error.
type Provider interface {
	History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)

	// Name identifies the source, e.g. "yahoo". Used for rate-limit
	// buckets and log attributes.
	Name() string
}
