package services

import (
	"context"
	"testing"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/quotes"
	"alphastock/internal/testutil"
)

// fakeMarketData serves canned charts; tickers not in the map fail.
type fakeMarketData struct {
	*fakeQuotes
	charts map[string]*quotes.Chart
	news   map[string][]quotes.NewsItem
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{
		fakeQuotes: newFakeQuotes(nil),
		charts:     make(map[string]*quotes.Chart),
		news:       make(map[string][]quotes.NewsItem),
	}
}

func (f *fakeMarketData) addChart(ticker, name string, price, change, pct float64) {
	f.charts[ticker] = &quotes.Chart{
		Symbol:      ticker,
		CompanyName: name,
		Price:       &price,
		Change:      &change,
		Pct:         &pct,
	}
}

func (f *fakeMarketData) FetchChart(_ context.Context, ticker, _ string) (*quotes.Chart, error) {
	chart, ok := f.charts[ticker]
	if !ok {
		return nil, apperrors.ErrUpstreamUnavailable
	}
	return chart, nil
}

func (f *fakeMarketData) FetchNews(_ context.Context, ticker string, _ int) []quotes.NewsItem {
	return f.news[ticker]
}

func TestGetChart(t *testing.T) {
	t.Run("defaults_range", func(t *testing.T) {
		src := newFakeMarketData()
		src.addChart("AAPL", "Apple Inc.", 150, 1, 0.5)
		svc := NewMarketService(src)

		chart, err := svc.GetChart(context.Background(), "aapl", "")
		testutil.AssertNoError(t, err)
		if chart.Symbol != "AAPL" {
			t.Errorf("expected AAPL, got %s", chart.Symbol)
		}
	})

	t.Run("blank_ticker", func(t *testing.T) {
		svc := NewMarketService(newFakeMarketData())

		_, err := svc.GetChart(context.Background(), "  ", "1d")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("upstream_failure", func(t *testing.T) {
		svc := NewMarketService(newFakeMarketData())

		_, err := svc.GetChart(context.Background(), "AAPL", "1d")
		testutil.AssertAppError(t, err, "UPSTREAM_UNAVAILABLE")
	})
}

func TestGetPrices(t *testing.T) {
	t.Run("failed_tickers_have_nil_price", func(t *testing.T) {
		src := newFakeMarketData()
		src.addChart("AAPL", "Apple Inc.", 150, 1, 0.5)
		svc := NewMarketService(src)

		prices := svc.GetPrices(context.Background(), []string{"aapl", "ZZZZ"})
		if len(prices) != 2 {
			t.Fatalf("expected 2 results, got %d", len(prices))
		}
		if prices[0].Price == nil || *prices[0].Price != 150 {
			t.Errorf("expected AAPL price 150, got %v", prices[0].Price)
		}
		if prices[1].Price != nil {
			t.Errorf("expected nil price for unknown ticker, got %v", *prices[1].Price)
		}
		if prices[1].Ticker != "ZZZZ" {
			t.Errorf("expected ticker preserved, got %s", prices[1].Ticker)
		}
	})
}

func TestGetMovers(t *testing.T) {
	t.Run("splits_gainers_and_losers", func(t *testing.T) {
		src := newFakeMarketData()
		src.addChart("AAPL", "Apple Inc.", 150, 3, 2.0)
		src.addChart("MSFT", "Microsoft", 300, 15, 5.0)
		src.addChart("TSLA", "Tesla", 200, -8, -4.0)
		src.addChart("NVDA", "NVIDIA", 500, -5, -1.0)
		svc := NewMarketService(src)

		movers := svc.GetMovers(context.Background())
		if len(movers.Gainers) != 2 || len(movers.Losers) != 2 {
			t.Fatalf("expected 2 gainers and 2 losers, got %d/%d", len(movers.Gainers), len(movers.Losers))
		}
		if movers.Gainers[0].Ticker != "MSFT" {
			t.Errorf("expected MSFT top gainer, got %s", movers.Gainers[0].Ticker)
		}
		if movers.Losers[0].Ticker != "TSLA" {
			t.Errorf("expected TSLA top loser, got %s", movers.Losers[0].Ticker)
		}
	})

	t.Run("all_failures_give_empty_board", func(t *testing.T) {
		svc := NewMarketService(newFakeMarketData())

		movers := svc.GetMovers(context.Background())
		if len(movers.Gainers) != 0 || len(movers.Losers) != 0 {
			t.Errorf("expected empty board, got %+v", movers)
		}
	})
}

func TestGetNews(t *testing.T) {
	t.Run("empty_on_failure", func(t *testing.T) {
		svc := NewMarketService(newFakeMarketData())

		news := svc.GetNews(context.Background(), "AAPL")
		if news == nil || len(news) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", news)
		}
	})

	t.Run("passes_headlines_through", func(t *testing.T) {
		src := newFakeMarketData()
		src.news["AAPL"] = []quotes.NewsItem{{Title: "Apple ships something"}}
		svc := NewMarketService(src)

		news := svc.GetNews(context.Background(), "aapl")
		if len(news) != 1 || news[0].Title != "Apple ships something" {
			t.Errorf("unexpected news: %v", news)
		}
	})
}
