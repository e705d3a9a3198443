package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/models"
	"alphastock/internal/pagination"
	"alphastock/internal/services"
)

// TradeHandler handles trade execution and history requests.
type TradeHandler struct {
	tradeService services.TradeServicer
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService services.TradeServicer) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// ExecuteTradeRequest represents the request payload for placing an order.
type ExecuteTradeRequest struct {
	Ticker   string  `json:"ticker" binding:"required,ticker"`
	Side     string  `json:"side" binding:"required,trade_side"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

// ExecuteTrade fills a simulated buy or sell order.
// @Summary     Execute a trade
// @Description Fill a simulated order at the given price against the cash balance
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExecuteTradeRequest true "Order details"
// @Success     201 {object} models.Trade "Trade executed"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds/shares"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /trades [post]
func (h *TradeHandler) ExecuteTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExecuteTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.tradeService.ExecuteTrade(
		c.Request.Context(),
		userID,
		req.Ticker,
		models.TradeSide(req.Side),
		req.Quantity,
		req.Price,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

// GetTrades returns the user's trade history.
// @Summary     List trades
// @Description Return the user's trade history, most recent first
// @Tags        trades
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Trade] "Trade history"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /trades [get]
func (h *TradeHandler) GetTrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trades, err := h.tradeService.GetUserTrades(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trades)
}

// ClearTrades deletes the user's trade history.
// @Summary     Clear trade history
// @Description Delete all of the user's trades, leaving holdings and balance untouched
// @Tags        trades
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "History cleared"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /trades [delete]
func (h *TradeHandler) ClearTrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tradeService.ClearTrades(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trade history cleared"})
}
