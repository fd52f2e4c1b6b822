// Package download turns per-symbol provider history into one aligned
// table, fetching all symbols concurrently.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"stockmotion/internal/provider"
	"stockmotion/internal/ratelimit"
	"stockmotion/internal/table"
)

const dateLayout = "2006-01-02"

// Result is one symbol's fetch outcome, sent from worker goroutines to
// the collector.
type Result struct {
	Symbol string
	Bars   []provider.Bar
	Err    error
}

// Downloader fetches history for a set of symbols through one provider.
type Downloader struct {
	Provider provider.Provider
	Limiter  *ratelimit.Limiter
	Quote    provider.Quote
}

// New creates a Downloader. quote selects which price field feeds the
// series values.
func New(p provider.Provider, l *ratelimit.Limiter, quote provider.Quote) *Downloader {
	return &Downloader{Provider: p, Limiter: l, Quote: quote}
}

// Download fetches all symbols concurrently and aligns the series on
// trading days present for every symbol. Values are rounded to two
// decimal places. A range with no common observations yields an empty
// table, not an error.
func (d *Downloader) Download(ctx context.Context, symbols []string, start, end time.Time) (*table.Table, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested")
	}

	resultChan := make(chan Result, len(symbols))
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			if err := d.Limiter.Wait(ctx, d.Provider.Name()); err != nil {
				resultChan <- Result{Symbol: symbol, Err: err}
				return
			}

			slog.Debug("fetching history", "provider", d.Provider.Name(), "symbol", symbol)
			bars, err := d.Provider.History(ctx, symbol, start, end)
			resultChan <- Result{Symbol: symbol, Bars: bars, Err: err}
		}(symbol)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	series := make(map[string]map[string]float64, len(symbols))
	for result := range resultChan {
		if result.Err != nil {
			return nil, fmt.Errorf("download %s: %w", result.Symbol, result.Err)
		}
		values := make(map[string]float64, len(result.Bars))
		for _, b := range result.Bars {
			values[b.Date.Format(dateLayout)] = round2(d.Quote.Value(b))
		}
		series[result.Symbol] = values
		slog.Info("downloaded history", "symbol", result.Symbol, "days", len(result.Bars))
	}

	return align(symbols, series), nil
}

// align inner-joins the per-symbol series on dates every symbol has,
// producing columns in request order.
func align(symbols []string, series map[string]map[string]float64) *table.Table {
	var dates []string
	for date := range series[symbols[0]] {
		shared := true
		for _, symbol := range symbols[1:] {
			if _, ok := series[symbol][date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	t := table.New("Date", symbols)
	row := make([]float64, len(symbols))
	for _, date := range dates {
		for j, symbol := range symbols {
			row[j] = series[symbol][date]
		}
		_ = t.Append(date, row) // row arity matches by construction
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
