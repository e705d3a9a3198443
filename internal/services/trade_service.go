package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"alphastock/internal/errors"
	"alphastock/internal/logger"
	"alphastock/internal/models"
	"alphastock/internal/pagination"
)

// tradeFeeRate is the flat commission applied to every fill: 0.1% of
// the gross amount. Buys pay gross plus fee, sells receive gross minus fee.
var tradeFeeRate = decimal.RequireFromString("0.001")

// tradeService executes simulated orders against the user's cash ledger
// and holdings.
type tradeService struct {
	db *gorm.DB
}

// NewTradeService creates a new trade service instance.
func NewTradeService(db *gorm.DB) TradeServicer {
	return &tradeService{db: db}
}

// ExecuteTrade fills a buy or sell order at the given price, adjusting
// the user's cash balance and holdings atomically. The whole fill runs
// in one transaction; on any failure no money or shares move.
func (s *tradeService) ExecuteTrade(ctx context.Context, userID, ticker string, side models.TradeSide, quantity, price float64) (*models.Trade, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "ticker is required")
	}
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "side must be buy or sell")
	}
	if quantity <= 0 {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "quantity must be greater than zero")
	}
	if price <= 0 {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "price must be greater than zero")
	}

	qty := decimal.NewFromFloat(quantity)
	prc := decimal.NewFromFloat(price)
	gross := qty.Mul(prc)
	fee := gross.Mul(tradeFeeRate)

	var total decimal.Decimal
	if side == models.TradeSideBuy {
		total = gross.Add(fee)
	} else {
		total = gross.Sub(fee)
	}
	feeAmount, _ := fee.Float64()
	totalAmount, _ := total.Float64()

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	trade := &models.Trade{
		UserID:   userID,
		Ticker:   ticker,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Fee:      feeAmount,
		Total:    totalAmount,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if side == models.TradeSideBuy {
			if err := debitCash(tx, userID, totalAmount); err != nil {
				return err
			}
			if err := applyBuy(tx, userID, ticker, quantity, price); err != nil {
				return err
			}
		} else {
			if err := applySell(tx, userID, ticker, quantity, price); err != nil {
				return err
			}
			if err := creditCash(tx, userID, totalAmount); err != nil {
				return err
			}
		}

		if err := tx.Create(trade).Error; err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}

		notification := &models.Notification{
			UserID:  userID,
			Title:   fmt.Sprintf("%s Order Executed", strings.ToUpper(string(side))),
			Message: fillMessage(side, quantity, ticker, price),
			Type:    models.NotificationTypeTrade,
		}
		if err := tx.Create(notification).Error; err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("trade executed",
		"user_id", userID, "ticker", ticker, "side", side,
		"quantity", quantity, "price", price, "total", totalAmount)
	return trade, nil
}

// GetUserTrades returns the user's trade history, most recent first.
func (s *tradeService) GetUserTrades(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Trade{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	var trades []models.Trade
	err := s.db.Where("user_id = ?", userID).
		Order("executed_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&trades).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(trades, page.Page, page.PageSize, total)
	return &resp, nil
}

// ClearTrades deletes the user's entire trade history. Holdings and the
// cash balance are left as they are.
func (s *tradeService) ClearTrades(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Trade{}).Error; err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

// debitCash subtracts amount from the user's balance, guarded so the
// balance can never go negative. A zero-row update means the funds
// were not there.
func debitCash(tx *gorm.DB, userID string, amount float64) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND cash_balance >= ?", userID, amount).
		Update("cash_balance", gorm.Expr("cash_balance - ?", amount))
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrInsufficientFunds
	}
	return nil
}

func creditCash(tx *gorm.DB, userID string, amount float64) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("cash_balance", gorm.Expr("cash_balance + ?", amount))
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	return nil
}

// applyBuy folds the fill into an existing holding with a weighted
// average buy price, or opens a new holding. The average is computed in
// SQL so both sides of the expression see the pre-update row.
func applyBuy(tx *gorm.DB, userID, ticker string, quantity, price float64) error {
	now := time.Now()
	res := tx.Model(&models.Holding{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Updates(map[string]interface{}{
			"avg_buy_price": gorm.Expr("(avg_buy_price * quantity + ? * ?) / (quantity + ?)", price, quantity, quantity),
			"quantity":      gorm.Expr("quantity + ?", quantity),
			"current_price": price,
			"last_updated":  now,
		})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	holding := &models.Holding{
		UserID:       userID,
		Ticker:       ticker,
		Quantity:     quantity,
		AvgBuyPrice:  price,
		CurrentPrice: price,
		LastUpdated:  now,
	}
	if err := tx.Create(holding).Error; err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

// applySell removes shares from the holding, guarded so the position can
// never go short. Selling the entire position deletes the holding row.
func applySell(tx *gorm.DB, userID, ticker string, quantity, price float64) error {
	res := tx.Model(&models.Holding{}).
		Where("user_id = ? AND ticker = ? AND quantity >= ?", userID, ticker, quantity).
		Updates(map[string]interface{}{
			"quantity":      gorm.Expr("quantity - ?", quantity),
			"current_price": price,
			"last_updated":  time.Now(),
		})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrInsufficientShares
	}

	err := tx.Where("user_id = ? AND ticker = ? AND quantity <= 0", userID, ticker).
		Delete(&models.Holding{}).Error
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

func fillMessage(side models.TradeSide, quantity float64, ticker string, price float64) string {
	verb := "Bought"
	if side == models.TradeSideSell {
		verb = "Sold"
	}
	qty := strconv.FormatFloat(quantity, 'f', -1, 64)
	return fmt.Sprintf("%s %s shares of %s at $%.2f", verb, qty, ticker, price)
}
