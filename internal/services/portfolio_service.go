package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"alphastock/internal/errors"
	"alphastock/internal/logger"
	"alphastock/internal/models"
)

// portfolioService aggregates holdings into portfolio views and handles
// the non-trade ledger operations.
type portfolioService struct {
	db     *gorm.DB
	quotes QuoteFetcher
}

// NewPortfolioService creates a new portfolio service instance.
func NewPortfolioService(db *gorm.DB, quotes QuoteFetcher) PortfolioServicer {
	return &portfolioService{db: db, quotes: quotes}
}

// GetPortfolio returns the user's holdings together with aggregate
// market value, cost basis and unrealized gain/loss. Holdings whose
// price has never been refreshed are valued at their average buy price.
func (s *portfolioService) GetPortfolio(userID string) (*PortfolioSummary, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	var holdings []models.Holding
	err := s.db.Where("user_id = ?", userID).Order("ticker ASC").Find(&holdings).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	summary := &PortfolioSummary{
		Holdings:    holdings,
		CashBalance: user.CashBalance,
	}
	for i := range holdings {
		summary.TotalValue += holdings[i].MarketValue()
		summary.TotalCost += holdings[i].CostValue()
	}
	summary.TotalGainLoss = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.TotalGainLossPct = summary.TotalGainLoss / summary.TotalCost * 100
	}
	return summary, nil
}

// RefreshPrices fetches a fresh quote for every distinct held ticker and
// writes it back to all holdings of that ticker. Tickers whose quote
// cannot be resolved keep their previous price.
func (s *portfolioService) RefreshPrices(ctx context.Context) (*PriceRefreshResult, error) {
	var tickers []string
	err := s.db.Model(&models.Holding{}).Distinct("ticker").Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	result := &PriceRefreshResult{Prices: make(map[string]float64)}
	if len(tickers) == 0 {
		return result, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			price, ok := s.quotes.FetchPrice(ctx, ticker)
			if !ok {
				logger.Get().Warnw("price refresh skipped", "ticker", ticker)
				return
			}
			mu.Lock()
			result.Prices[ticker] = price
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	now := time.Now()
	for ticker, price := range result.Prices {
		res := s.db.Model(&models.Holding{}).
			Where("ticker = ?", ticker).
			Updates(map[string]interface{}{
				"current_price": price,
				"last_updated":  now,
			})
		if res.Error != nil {
			return nil, errors.Wrap(errors.ErrInternalServer, res.Error)
		}
		result.Updated += int(res.RowsAffected)
	}

	logger.Get().Infow("holding prices refreshed", "tickers", len(result.Prices), "holdings", result.Updated)
	return result, nil
}

// UpdateHoldingPrice sets the current price on a single holding. Used by
// clients that already have a quote in hand.
func (s *portfolioService) UpdateHoldingPrice(userID, ticker string, price float64) error {
	if price <= 0 {
		return errors.WithMessage(errors.ErrInvalidInput, "price must be greater than zero")
	}
	res := s.db.Model(&models.Holding{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Updates(map[string]interface{}{
			"current_price": price,
			"last_updated":  time.Now(),
		})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrHoldingNotFound
	}
	return nil
}

// ResetBalance restores the user's starting cash balance. Holdings and
// trade history are left untouched.
func (s *portfolioService) ResetBalance(userID string) (float64, error) {
	res := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("cash_balance", models.StartingCashBalance)
	if res.Error != nil {
		return 0, errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, errors.ErrUserNotFound
	}

	logger.Get().Infow("balance reset", "user_id", userID)
	return models.StartingCashBalance, nil
}
