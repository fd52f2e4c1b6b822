package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stockmotion/internal/provider"
)

var (
	start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestNew(t *testing.T) {
	c := New("")
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if got := c.Name(); got != "yahoo" {
		t.Errorf("Name() = %q, want yahoo", got)
	}
}

func TestHistory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v8/finance/chart/AAPL" {
			t.Errorf("path = %q, want /v8/finance/chart/AAPL", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %q, want 1d", got)
		}
		if got := r.URL.Query().Get("period1"); got == "" {
			t.Error("period1 query parameter missing")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1577923200, 1578009600],
					"indicators": {
						"quote": [{
							"open":   [100.0, 101.0],
							"high":   [102.5, 103.5],
							"low":    [99.0, 100.5],
							"close":  [101.5, 102.0],
							"volume": [1000, 2000]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	bars, err := New(server.URL).History(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("History() returned error: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].High != 102.5 {
		t.Errorf("bars[0].High = %v, want 102.5", bars[0].High)
	}
	if bars[1].Close != 102.0 {
		t.Errorf("bars[1].Close = %v, want 102.0", bars[1].Close)
	}
	if bars[0].Volume != 1000 {
		t.Errorf("bars[0].Volume = %d, want 1000", bars[0].Volume)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("bars are not sorted by date")
	}
}

func TestHistory_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1577923200],
					"indicators": {
						"quote": [{
							"open":   [100.0],
							"high":   [102.5],
							"low":    [99.0],
							"close":  [101.5],
							"volume": [1000]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	bars, err := New(server.URL).History(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("History() returned error after retryable failure: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2 (initial + one retry)", got)
	}
}

func TestHistory_SkipsNullBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1577923200, 1578009600, 1578096000],
					"indicators": {
						"quote": [{
							"open":   [100.0, null, 101.0],
							"high":   [102.5, null, 103.5],
							"low":    [99.0, null, 100.5],
							"close":  [101.5, null, 102.0],
							"volume": [1000, null, 2000]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	bars, err := New(server.URL).History(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("History() returned error: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("got %d bars, want 2 (null bar skipped)", len(bars))
	}
}

func TestHistory_EmptyRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart": {"result": [{"timestamp": [], "indicators": {"quote": []}}], "error": null}}`))
	}))
	defer server.Close()

	bars, err := New(server.URL).History(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("History() for an empty range expected no error, got: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars, want 0", len(bars))
	}
}

func TestHistory_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	_, err := New(server.URL).History(context.Background(), "ZZZZ", start, end)
	if err == nil {
		t.Fatal("History() expected error, got nil")
	}

	var fetchErr *provider.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v is not a FetchError", err)
	}
	if fetchErr.Kind != provider.KindValidation {
		t.Errorf("Kind = %q, want %q", fetchErr.Kind, provider.KindValidation)
	}
}

func TestHistory_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).History(context.Background(), "AAPL", start, end)
	if err == nil {
		t.Fatal("History() expected error, got nil")
	}

	var fetchErr *provider.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v is not a FetchError", err)
	}
	if fetchErr.Kind != provider.KindClient {
		t.Errorf("Kind = %q, want %q", fetchErr.Kind, provider.KindClient)
	}
	if fetchErr.Retryable {
		t.Error("client errors must not be retryable")
	}
}
