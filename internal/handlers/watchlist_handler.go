package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/services"
)

// WatchlistHandler handles watchlist requests.
type WatchlistHandler struct {
	watchlistService services.WatchlistServicer
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService services.WatchlistServicer) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// AddWatchlistRequest represents the request payload for adding a ticker.
type AddWatchlistRequest struct {
	Ticker string `json:"ticker" binding:"required,ticker"`
}

// GetWatchlist returns the user's watchlist in display order.
// @Summary     Get watchlist
// @Tags        watchlist
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.WatchlistEntry "Watchlist"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /watchlist [get]
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.watchlistService.GetWatchlist(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"watchlist": entries})
}

// AddTicker appends a ticker to the watchlist.
// @Summary     Add to watchlist
// @Tags        watchlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddWatchlistRequest true "Ticker to add"
// @Success     201 {object} models.WatchlistEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Ticker already on watchlist"
// @Router      /watchlist [post]
func (h *WatchlistHandler) AddTicker(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.watchlistService.AddTicker(userID, req.Ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// RemoveTicker removes a ticker from the watchlist.
// @Summary     Remove from watchlist
// @Tags        watchlist
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} map[string]string "Entry removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Ticker not on watchlist"
// @Router      /watchlist/{ticker} [delete]
func (h *WatchlistHandler) RemoveTicker(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticker := strings.TrimSpace(c.Param("ticker"))
	if ticker == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required"))
		return
	}

	if err := h.watchlistService.RemoveTicker(userID, ticker); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticker removed from watchlist"})
}
