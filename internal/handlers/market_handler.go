package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/services"
)

// maxBatchTickers caps a single prices request.
const maxBatchTickers = 25

// MarketHandler handles market data passthrough requests.
type MarketHandler struct {
	marketService services.MarketServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService services.MarketServicer) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// ChartRequest represents the query parameters for a chart lookup.
type ChartRequest struct {
	Range string `form:"range" binding:"omitempty,chart_range"`
}

// GetChart returns chart data for a ticker.
// @Summary     Get chart data
// @Description Return OHLCV points and a quote summary for a ticker
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       range query string false "Chart range" Enums(1d, 5d, 1mo, 3mo, 6mo, 1y, 5y, max) default(1d)
// @Success     200 {object} quotes.Chart "Chart data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote source unavailable"
// @Router      /market/chart/{ticker} [get]
func (h *MarketHandler) GetChart(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req ChartRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	chart, err := h.marketService.GetChart(c.Request.Context(), c.Param("ticker"), req.Range)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// GetPrices resolves a comma-separated batch of tickers.
// @Summary     Get batch prices
// @Description Resolve quotes for up to 25 comma-separated tickers
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       tickers query string true "Comma-separated tickers"
// @Success     200 {array} services.TickerPrice "Prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /market/prices [get]
func (h *MarketHandler) GetPrices(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	raw := strings.TrimSpace(c.Query("tickers"))
	if raw == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "tickers query parameter is required"))
		return
	}

	var tickers []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 || len(tickers) > maxBatchTickers {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "between 1 and 25 tickers per request"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": h.marketService.GetPrices(c.Request.Context(), tickers)})
}

// GetMovers returns the top gainers and losers.
// @Summary     Get market movers
// @Description Return top gainers and losers across popular tickers
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MarketMovers "Movers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /market/movers [get]
func (h *MarketHandler) GetMovers(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.marketService.GetMovers(c.Request.Context()))
}

// GetNews returns recent headlines for a ticker.
// @Summary     Get ticker news
// @Description Return recent headlines for a ticker, best effort
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {array} quotes.NewsItem "Headlines"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /market/news/{ticker} [get]
func (h *MarketHandler) GetNews(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": h.marketService.GetNews(c.Request.Context(), c.Param("ticker"))})
}
