package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"alphastock/internal/errors"
	"alphastock/internal/logger"
	"alphastock/internal/quotes"
)

// popularTickers is the fixed universe the movers board is computed over.
var popularTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA",
	"AMD", "NFLX", "INTC", "JPM", "V", "DIS", "BA", "KO",
}

const defaultNewsCount = 10

// marketService exposes quote, chart, movers and news lookups backed by
// the upstream quote gateway.
type marketService struct {
	quotes MarketDataSource
}

// NewMarketService creates a new market service instance.
func NewMarketService(quotes MarketDataSource) MarketServicer {
	return &marketService{quotes: quotes}
}

// GetChart returns OHLCV chart data for a ticker over the given range.
func (s *marketService) GetChart(ctx context.Context, ticker, rng string) (*quotes.Chart, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "ticker is required")
	}
	if rng == "" {
		rng = "1d"
	}
	return s.quotes.FetchChart(ctx, ticker, rng)
}

// GetPrices resolves a batch of tickers concurrently. Tickers that fail
// to resolve come back with a nil price rather than failing the batch.
func (s *marketService) GetPrices(ctx context.Context, tickers []string) []TickerPrice {
	results := make([]TickerPrice, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		results[i] = TickerPrice{Ticker: ticker}
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			chart, err := s.quotes.FetchChart(ctx, ticker, "1d")
			if err != nil {
				logger.Get().Warnw("batch price lookup failed", "ticker", ticker, "error", err)
				return
			}
			results[i].Name = chart.CompanyName
			results[i].Price = chart.Price
			results[i].Change = chart.Change
			results[i].Pct = chart.Pct
		}(i, ticker)
	}
	wg.Wait()
	return results
}

// GetMovers quotes the popular-ticker universe and splits it into top
// gainers and losers by percent change. Tickers that fail to resolve
// are simply left off the board.
func (s *marketService) GetMovers(ctx context.Context) *MarketMovers {
	prices := s.GetPrices(ctx, popularTickers)

	var resolved []MoverQuote
	for _, p := range prices {
		if p.Price == nil || p.Change == nil || p.Pct == nil {
			continue
		}
		resolved = append(resolved, MoverQuote{
			Ticker: p.Ticker,
			Name:   p.Name,
			Price:  *p.Price,
			Change: *p.Change,
			Pct:    *p.Pct,
		})
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Pct > resolved[j].Pct })

	movers := &MarketMovers{Gainers: []MoverQuote{}, Losers: []MoverQuote{}}
	for _, q := range resolved {
		if q.Pct >= 0 && len(movers.Gainers) < 5 {
			movers.Gainers = append(movers.Gainers, q)
		}
	}
	for i := len(resolved) - 1; i >= 0; i-- {
		if resolved[i].Pct < 0 && len(movers.Losers) < 5 {
			movers.Losers = append(movers.Losers, resolved[i])
		}
	}
	return movers
}

// GetNews returns recent headlines for a ticker. Best effort: upstream
// failures yield an empty list.
func (s *marketService) GetNews(ctx context.Context, ticker string) []quotes.NewsItem {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	items := s.quotes.FetchNews(ctx, ticker, defaultNewsCount)
	if items == nil {
		items = []quotes.NewsItem{}
	}
	return items
}
