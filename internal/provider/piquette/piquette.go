// Package piquette adapts the finance-go chart iterator to the provider
// interface. Unlike the yahoo package it speaks to the production
// endpoint only, so it has no injectable base URL.
package piquette

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"stockmotion/internal/provider"
)

// Client fetches daily history through github.com/piquette/finance-go.
type Client struct{}

func New() *Client { return &Client{} }

// Name implements provider.Provider.
func (c *Client) Name() string { return "piquette" }

// History implements provider.Provider.
func (c *Client) History(ctx context.Context, symbol string, start, end time.Time) ([]provider.Bar, error) {
	params := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	}

	var bars []provider.Bar
	iter := chart.Get(params)
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, provider.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	return bars, nil
}
