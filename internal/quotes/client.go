// Package quotes fetches market data from the Yahoo Finance public
// chart API. All fetch helpers are best-effort: callers of the batch
// helpers treat an absent price as "skip this ticker", never as a hard
// failure.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/logger"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 5 * time.Second
	cacheTTL       = 5 * time.Minute
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"
)

// Point is a single OHLCV candle. Time is epoch milliseconds.
type Point struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Chart is the parsed quote summary for one ticker. Summary fields are
// pointers: nil means the upstream payload had no usable value.
type Chart struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name,omitempty"`
	Price       *float64  `json:"price"`
	Change      *float64  `json:"change"`
	Pct         *float64  `json:"pct"`
	High        *float64  `json:"high"`
	Low         *float64  `json:"low"`
	Volume      *int64    `json:"volume"`
	Timestamp   time.Time `json:"timestamp"`
	Points      []Point   `json:"points"`
}

// NewsItem is a single headline from the search endpoint.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link"`
	PublishedAt int64  `json:"published_at"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Client calls the Yahoo Finance chart and search endpoints. The base
// URL is overridable for tests; the optional Redis cache holds last
// prices for five minutes so batch callers don't hammer the upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	cache      *redis.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout bounds every upstream call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithCache attaches a Redis price cache.
func WithCache(cache *redis.Client) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a quote client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the relevant slice of the v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
				RegularMarketVolume *int64  `json:"regularMarketVolume"`
			} `json:"meta"`
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

// IntervalForRange maps a chart range to the candle interval the
// dashboard expects: minute candles intraday, daily candles up to six
// months, weekly candles beyond.
func IntervalForRange(rng string) string {
	switch rng {
	case "5d", "1mo", "3mo", "6mo":
		return "1d"
	case "1y", "5y", "max":
		return "1wk"
	default:
		return "1m"
	}
}

// FetchChart fetches and parses the chart for a ticker over the given
// range. Upstream failures return UPSTREAM_UNAVAILABLE; candles with a
// null close are dropped.
func (c *Client) FetchChart(ctx context.Context, ticker, rng string) (*Chart, error) {
	if rng == "" {
		rng = "1d"
	}
	interval := IntervalForRange(rng)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s&includePrePost=true",
		c.baseURL, url.PathEscape(strings.ToUpper(ticker)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	if payload.Chart.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable,
			fmt.Errorf("chart error %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description))
	}
	if len(payload.Chart.Result) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, fmt.Errorf("empty result for %s", ticker))
	}

	return buildChart(strings.ToUpper(ticker), &payload), nil
}

// buildChart assembles the Chart summary from a decoded payload.
func buildChart(symbol string, payload *chartResponse) *Chart {
	result := payload.Chart.Result[0]
	meta := result.Meta

	chart := &Chart{Symbol: symbol}
	if meta.LongName != "" {
		chart.CompanyName = meta.LongName
	} else {
		chart.CompanyName = meta.ShortName
	}

	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		for i, ts := range result.Timestamp {
			closeVal := at(quote.Close, i)
			if closeVal == nil {
				// pre/post market gap or missing candle
				continue
			}
			p := Point{Time: ts * 1000, Close: *closeVal}
			if v := at(quote.Open, i); v != nil {
				p.Open = *v
			}
			if v := at(quote.High, i); v != nil {
				p.High = *v
			}
			if v := at(quote.Low, i); v != nil {
				p.Low = *v
			}
			if v := atInt(quote.Volume, i); v != nil {
				p.Volume = *v
			}
			chart.Points = append(chart.Points, p)
		}
	}

	// Latest price: last valid close, falling back to the meta field.
	if n := len(chart.Points); n > 0 {
		last := chart.Points[n-1]
		chart.Price = &last.Close
		chart.Timestamp = time.UnixMilli(last.Time).UTC()
	} else {
		chart.Price = meta.RegularMarketPrice
		chart.Timestamp = time.Now().UTC()
	}

	// Previous close: meta first, then the second-to-last candle.
	prevClose := meta.PreviousClose
	if prevClose == nil {
		prevClose = meta.ChartPreviousClose
	}
	if prevClose == nil && len(chart.Points) >= 2 {
		prevClose = &chart.Points[len(chart.Points)-2].Close
	}
	if chart.Price != nil && prevClose != nil && *prevClose != 0 {
		change := *chart.Price - *prevClose
		pct := change / *prevClose * 100
		chart.Change = &change
		chart.Pct = &pct
	}

	high, low, volume := aggregatePoints(chart.Points)
	chart.High = high
	chart.Low = low
	if volume != nil {
		chart.Volume = volume
	} else {
		chart.Volume = meta.RegularMarketVolume
	}

	return chart
}

// aggregatePoints computes range-wide high, low, and summed volume.
func aggregatePoints(points []Point) (high, low *float64, volume *int64) {
	if len(points) == 0 {
		return nil, nil, nil
	}
	h, l := points[0].High, points[0].Low
	var v int64
	for _, p := range points {
		if p.High > h {
			h = p.High
		}
		if p.Low != 0 && (l == 0 || p.Low < l) {
			l = p.Low
		}
		v += p.Volume
	}
	if v == 0 {
		return &h, &l, nil
	}
	return &h, &l, &v
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func atInt(values []*int64, i int) *int64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

// FetchPrice returns the latest close for a ticker, or false when no
// price could be resolved. Failures are logged and swallowed so batch
// callers skip the ticker and move on. Resolved prices pass through
// the Redis cache when one is configured.
func (c *Client) FetchPrice(ctx context.Context, ticker string) (float64, bool) {
	ticker = strings.ToUpper(ticker)

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey(ticker)).Result(); err == nil {
			if price, err := strconv.ParseFloat(cached, 64); err == nil {
				return price, true
			}
		}
	}

	chart, err := c.FetchChart(ctx, ticker, "1d")
	if err != nil {
		logger.Get().Warnw("quote fetch failed", "ticker", ticker, "error", err)
		return 0, false
	}
	if chart.Price == nil {
		return 0, false
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey(ticker), strconv.FormatFloat(*chart.Price, 'f', -1, 64), cacheTTL).Err(); err != nil {
			logger.Get().Warnw("quote cache write failed", "ticker", ticker, "error", err)
		}
	}

	return *chart.Price, true
}

func cacheKey(ticker string) string {
	return "quote:" + ticker
}
