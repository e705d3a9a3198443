package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/services"
)

// PortfolioHandler handles portfolio and ledger requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// UpdatePriceRequest represents the request payload for a manual price update.
type UpdatePriceRequest struct {
	Ticker string  `json:"ticker" binding:"required,ticker"`
	Price  float64 `json:"price" binding:"required,gt=0"`
}

// GetPortfolio returns the user's holdings and performance summary.
// @Summary     Get portfolio
// @Description Return holdings with market value, cost basis and unrealized gain/loss
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.GetPortfolio(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RefreshPrices refreshes the stored price of every held ticker.
// @Summary     Refresh holding prices
// @Description Fetch fresh quotes for all held tickers and store them
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PriceRefreshResult "Refresh outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/refresh-prices [post]
func (h *PortfolioHandler) RefreshPrices(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.portfolioService.RefreshPrices(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePrice sets the current price on one of the user's holdings.
// @Summary     Update a holding price
// @Description Store a client-supplied price on a single holding
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePriceRequest true "Price update"
// @Success     200 {object} map[string]string "Price updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /portfolio/price [put]
func (h *PortfolioHandler) UpdatePrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.portfolioService.UpdateHoldingPrice(userID, req.Ticker, req.Price); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Price updated"})
}

// ResetBalance restores the starting cash balance. Holdings and trade
// history are kept.
// @Summary     Reset cash balance
// @Description Restore the starting cash balance
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]float64 "New balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/reset-balance [post]
func (h *PortfolioHandler) ResetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.portfolioService.ResetBalance(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash_balance": balance})
}
