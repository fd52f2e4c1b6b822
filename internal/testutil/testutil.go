package testutil

import (
	"context"
	"time"

	"stockmotion/internal/provider"
)

// MockProvider is a mock implementation of the provider interface for
// testing.
type MockProvider struct {
	HistoryFunc func(ctx context.Context, symbol string, start, end time.Time) ([]provider.Bar, error)
	NameFunc    func() string
}

// History implements provider.Provider.
func (m *MockProvider) History(ctx context.Context, symbol string, start, end time.Time) ([]provider.Bar, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, symbol, start, end)
	}
	return nil, nil
}

// Name implements provider.Provider.
func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// NewMockProvider creates a provider that returns fixed bars per
// symbol.
func NewMockProvider(bars map[string][]provider.Bar, err error) provider.Provider {
	return &MockProvider{
		HistoryFunc: func(_ context.Context, symbol string, _, _ time.Time) ([]provider.Bar, error) {
			return bars[symbol], err
		},
	}
}

// Bars builds daily bars from closing prices, one per day starting at
// the given date. All OHLC fields carry the same value.
func Bars(start time.Time, prices ...float64) []provider.Bar {
	bars := make([]provider.Bar, len(prices))
	for i, p := range prices {
		bars[i] = provider.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  p,
			High:  p,
			Low:   p,
			Close: p,
		}
	}
	return bars
}
