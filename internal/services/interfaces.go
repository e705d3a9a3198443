package services

import (
	"context"

	"alphastock/internal/models"
	"alphastock/internal/pagination"
	"alphastock/internal/quotes"
)

// QuoteFetcher is the slice of the quote gateway the business services
// depend on. A false return means the price could not be resolved and
// the ticker should be skipped for this pass.
type QuoteFetcher interface {
	FetchPrice(ctx context.Context, ticker string) (float64, bool)
}

// MarketDataSource extends QuoteFetcher with chart and news lookups
// for the market-data surfaces.
type MarketDataSource interface {
	QuoteFetcher
	FetchChart(ctx context.Context, ticker, rng string) (*quotes.Chart, error)
	FetchNews(ctx context.Context, ticker string, count int) []quotes.NewsItem
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// TradeServicer defines the contract for trade accounting.
type TradeServicer interface {
	ExecuteTrade(ctx context.Context, userID, ticker string, side models.TradeSide, quantity, price float64) (*models.Trade, error)
	GetUserTrades(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
	ClearTrades(userID string) error
}

// PortfolioSummary contains a user's holdings plus aggregate performance.
type PortfolioSummary struct {
	Holdings         []models.Holding `json:"portfolio"`
	CashBalance      float64          `json:"cash_balance"`
	TotalValue       float64          `json:"total_value"`
	TotalCost        float64          `json:"total_cost"`
	TotalGainLoss    float64          `json:"total_gain_loss"`
	TotalGainLossPct float64          `json:"total_gain_loss_pct"`
}

// PriceRefreshResult reports the outcome of a holdings price refresh.
type PriceRefreshResult struct {
	Updated int                `json:"updated"`
	Prices  map[string]float64 `json:"prices"`
}

// PortfolioServicer defines the contract for portfolio reads and the
// non-trade ledger operations.
type PortfolioServicer interface {
	GetPortfolio(userID string) (*PortfolioSummary, error)
	RefreshPrices(ctx context.Context) (*PriceRefreshResult, error)
	UpdateHoldingPrice(userID, ticker string, price float64) error
	ResetBalance(userID string) (float64, error)
}

// AlertCheckResult reports how many alerts a check pass looked at and fired.
type AlertCheckResult struct {
	Checked   int `json:"checked"`
	Triggered int `json:"triggered"`
}

// AlertServicer defines the contract for price alerts and their evaluation.
type AlertServicer interface {
	CreateAlert(ctx context.Context, userID, ticker string, condition models.AlertCondition, targetPrice float64) (*models.Alert, error)
	GetUserAlerts(userID string) ([]models.Alert, error)
	SetAlertActive(userID, alertID string, active bool) (*models.Alert, error)
	DeleteAlert(userID, alertID string) error
	CheckAlerts(ctx context.Context) (*AlertCheckResult, error)
}

// NotificationServicer defines the contract for notification CRUD.
type NotificationServicer interface {
	GetUserNotifications(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) (int64, error)
	DeleteNotification(userID, notificationID string) error
}

// WatchlistServicer defines the contract for watchlist CRUD.
type WatchlistServicer interface {
	GetWatchlist(userID string) ([]models.WatchlistEntry, error)
	AddTicker(userID, ticker string) (*models.WatchlistEntry, error)
	RemoveTicker(userID, ticker string) error
}

// TickerPrice is one entry of a batch price lookup. Nil price means the
// quote could not be resolved for this ticker.
type TickerPrice struct {
	Ticker string   `json:"ticker"`
	Name   string   `json:"name,omitempty"`
	Price  *float64 `json:"price"`
	Change *float64 `json:"change"`
	Pct    *float64 `json:"pct"`
}

// MoverQuote is a fully resolved quote for the movers board.
type MoverQuote struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Pct    float64 `json:"pct"`
}

// MarketMovers splits the popular-ticker set into top gainers and losers.
type MarketMovers struct {
	Gainers []MoverQuote `json:"gainers"`
	Losers  []MoverQuote `json:"losers"`
}

// MarketServicer defines the contract for quote passthrough surfaces.
type MarketServicer interface {
	GetChart(ctx context.Context, ticker, rng string) (*quotes.Chart, error)
	GetPrices(ctx context.Context, tickers []string) []TickerPrice
	GetMovers(ctx context.Context) *MarketMovers
	GetNews(ctx context.Context, ticker string) []quotes.NewsItem
}
