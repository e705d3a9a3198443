package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chartBody builds a minimal v8 chart payload. Pass null closes as the
// string "null" to exercise candle dropping.
func chartBody(symbol string, prevClose float64, timestamps []int64, closes []string) string {
	ts := make([]string, len(timestamps))
	for i, t := range timestamps {
		ts[i] = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"symbol": %q,
					"longName": "Test Corp",
					"previousClose": %g
				},
				"timestamp": [%s],
				"indicators": {"quote": [{"close": [%s]}]}
			}],
			"error": null
		}
	}`, symbol, prevClose, strings.Join(ts, ","), strings.Join(closes, ","))
}

func chartErrorBody(code, description string) string {
	return fmt.Sprintf(`{"chart": {"result": null, "error": {"code": %q, "description": %q}}}`, code, description)
}

func newChartServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetchChart_Success(t *testing.T) {
	body := chartBody("AAPL", 148, []int64{1000, 1060, 1120}, []string{"149.5", "null", "150.5"})
	server := newChartServer(t, http.StatusOK, body)
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	chart, err := client.FetchChart(context.Background(), "aapl", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chart.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", chart.Symbol)
	}
	if chart.CompanyName != "Test Corp" {
		t.Errorf("company = %q, want Test Corp", chart.CompanyName)
	}
	// The null candle is dropped.
	if len(chart.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(chart.Points))
	}
	if chart.Points[0].Time != 1000*1000 {
		t.Errorf("point time = %d, want epoch millis", chart.Points[0].Time)
	}
	if chart.Price == nil || *chart.Price != 150.5 {
		t.Errorf("price = %v, want 150.5", chart.Price)
	}
	if chart.Change == nil || *chart.Change != 2.5 {
		t.Errorf("change = %v, want 2.5 over previousClose", chart.Change)
	}
}

func TestFetchChart_PrevCloseFallback(t *testing.T) {
	// No meta previousClose: change is computed against the
	// second-to-last candle.
	body := `{
		"chart": {
			"result": [{
				"meta": {"symbol": "AAPL", "shortName": "Apple"},
				"timestamp": [1000, 1060],
				"indicators": {"quote": [{"close": [100, 110]}]}
			}],
			"error": null
		}
	}`
	server := newChartServer(t, http.StatusOK, body)
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	chart, err := client.FetchChart(context.Background(), "AAPL", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.CompanyName != "Apple" {
		t.Errorf("company = %q, want shortName fallback", chart.CompanyName)
	}
	if chart.Change == nil || *chart.Change != 10 {
		t.Errorf("change = %v, want 10", chart.Change)
	}
	if chart.Pct == nil || *chart.Pct != 10 {
		t.Errorf("pct = %v, want 10", chart.Pct)
	}
}

func TestFetchChart_UpstreamError(t *testing.T) {
	server := newChartServer(t, http.StatusOK, chartErrorBody("Not Found", "No data found"))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	_, err := client.FetchChart(context.Background(), "ZZZZ", "1d")
	if err == nil {
		t.Fatal("expected error for chart error payload")
	}
}

func TestFetchChart_BadStatus(t *testing.T) {
	server := newChartServer(t, http.StatusTooManyRequests, "slow down")
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	_, err := client.FetchChart(context.Background(), "AAPL", "1d")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFetchPrice(t *testing.T) {
	t.Run("resolves_last_close", func(t *testing.T) {
		body := chartBody("AAPL", 148, []int64{1000, 1060}, []string{"149", "151.25"})
		server := newChartServer(t, http.StatusOK, body)
		defer server.Close()

		client := NewClient(server.Client(), WithBaseURL(server.URL))
		price, ok := client.FetchPrice(context.Background(), "AAPL")
		if !ok {
			t.Fatal("expected price to resolve")
		}
		if price != 151.25 {
			t.Errorf("price = %f, want 151.25", price)
		}
	})

	t.Run("swallows_failures", func(t *testing.T) {
		server := newChartServer(t, http.StatusInternalServerError, "boom")
		defer server.Close()

		client := NewClient(server.Client(), WithBaseURL(server.URL))
		if _, ok := client.FetchPrice(context.Background(), "AAPL"); ok {
			t.Error("expected failure to report ok=false")
		}
	})
}

func TestIntervalForRange(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{"1d", "1m"},
		{"5d", "1d"},
		{"6mo", "1d"},
		{"1y", "1wk"},
		{"max", "1wk"},
		{"", "1m"},
	}
	for _, tt := range tests {
		if got := IntervalForRange(tt.rng); got != tt.want {
			t.Errorf("IntervalForRange(%q) = %q, want %q", tt.rng, got, tt.want)
		}
	}
}
