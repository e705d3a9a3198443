package services

import (
	"context"
	"testing"

	"alphastock/internal/models"
	"alphastock/internal/pagination"
	"alphastock/internal/testutil"
)

func TestExecuteTradeBuy(t *testing.T) {
	ctx := context.Background()

	t.Run("buy_debits_cash_with_fee", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		trade, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)

		testutil.AssertMoneyEqual(t, 1.50, trade.Fee, "fee")
		testutil.AssertMoneyEqual(t, 1501.50, trade.Total, "total")

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, models.StartingCashBalance-1501.50, updated.CashBalance, "cash balance")
	})

	t.Run("buy_opens_holding_at_fill_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "aapl", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)

		var holding models.Holding
		testutil.AssertNoError(t, db.First(&holding, "user_id = ? AND ticker = ?", user.ID, "AAPL").Error)
		if holding.Quantity != 10 {
			t.Errorf("expected quantity 10, got %v", holding.Quantity)
		}
		testutil.AssertMoneyEqual(t, 150, holding.AvgBuyPrice, "avg buy price")
		testutil.AssertMoneyEqual(t, 150, holding.CurrentPrice, "current price")
	})

	t.Run("second_buy_weights_average", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)
		_, err = svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 5, 160)
		testutil.AssertNoError(t, err)

		var holding models.Holding
		testutil.AssertNoError(t, db.First(&holding, "user_id = ? AND ticker = ?", user.ID, "AAPL").Error)
		if holding.Quantity != 15 {
			t.Errorf("expected quantity 15, got %v", holding.Quantity)
		}
		// (10*150 + 5*160) / 15
		testutil.AssertMoneyEqual(t, 153.3333, holding.AvgBuyPrice, "weighted avg buy price")
	})

	t.Run("insufficient_funds_leaves_state_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUserWithBalance(t, db, 100)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, 100, updated.CashBalance, "cash balance")

		var trades, holdings int64
		db.Model(&models.Trade{}).Where("user_id = ?", user.ID).Count(&trades)
		db.Model(&models.Holding{}).Where("user_id = ?", user.ID).Count(&holdings)
		if trades != 0 || holdings != 0 {
			t.Errorf("expected no trades or holdings, got %d trades, %d holdings", trades, holdings)
		}
	})

	t.Run("exact_balance_including_fee_fills", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUserWithBalance(t, db, 1501.50)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, 0, updated.CashBalance, "cash balance")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)

		_, err := svc.ExecuteTrade(ctx, "0198c5c6-0000-7000-8000-000000000000", "AAPL", models.TradeSideBuy, 1, 1)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 0, 150)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.ExecuteTrade(ctx, user.ID, "AAPL", "short", 10, 150)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.ExecuteTrade(ctx, user.ID, "  ", models.TradeSideBuy, 10, 150)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("fill_creates_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)

		var notification models.Notification
		testutil.AssertNoError(t, db.First(&notification, "user_id = ?", user.ID).Error)
		if notification.Type != models.NotificationTypeTrade {
			t.Errorf("expected trade notification, got %s", notification.Type)
		}
		if notification.Title != "BUY Order Executed" {
			t.Errorf("unexpected title %q", notification.Title)
		}
	})
}

func TestExecuteTradeSell(t *testing.T) {
	ctx := context.Background()

	t.Run("sell_credits_cash_minus_fee", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUserWithBalance(t, db, 1000)
		testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)

		trade, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 4, 160)
		testutil.AssertNoError(t, err)

		// gross 640, fee 0.64, credit 639.36
		testutil.AssertMoneyEqual(t, 0.64, trade.Fee, "fee")
		testutil.AssertMoneyEqual(t, 639.36, trade.Total, "total")

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, 1639.36, updated.CashBalance, "cash balance")
	})

	t.Run("sell_keeps_avg_buy_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 4, 160)
		testutil.AssertNoError(t, err)

		var holding models.Holding
		testutil.AssertNoError(t, db.First(&holding, "user_id = ? AND ticker = ?", user.ID, "AAPL").Error)
		if holding.Quantity != 6 {
			t.Errorf("expected quantity 6, got %v", holding.Quantity)
		}
		testutil.AssertMoneyEqual(t, 150, holding.AvgBuyPrice, "avg buy price")
		testutil.AssertMoneyEqual(t, 160, holding.CurrentPrice, "current price")
	})

	t.Run("sell_entire_position_removes_holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 10, 160)
		testutil.AssertNoError(t, err)

		var holdings int64
		db.Model(&models.Holding{}).Where("user_id = ?", user.ID).Count(&holdings)
		if holdings != 0 {
			t.Errorf("expected holding removed, found %d", holdings)
		}
	})

	t.Run("rebuy_after_full_sale_starts_fresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 10, 160)
		testutil.AssertNoError(t, err)
		_, err = svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 2, 200)
		testutil.AssertNoError(t, err)

		var holding models.Holding
		testutil.AssertNoError(t, db.First(&holding, "user_id = ? AND ticker = ?", user.ID, "AAPL").Error)
		testutil.AssertMoneyEqual(t, 200, holding.AvgBuyPrice, "avg buy price after rebuy")
	})

	t.Run("insufficient_shares_leaves_state_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUserWithBalance(t, db, 1000)
		testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 11, 160)
		testutil.AssertAppError(t, err, "INSUFFICIENT_SHARES")

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, 1000, updated.CashBalance, "cash balance")

		var holding models.Holding
		testutil.AssertNoError(t, db.First(&holding, "user_id = ? AND ticker = ?", user.ID, "AAPL").Error)
		if holding.Quantity != 10 {
			t.Errorf("expected quantity 10, got %v", holding.Quantity)
		}
	})

	t.Run("sell_without_holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideSell, 1, 160)
		testutil.AssertAppError(t, err, "INSUFFICIENT_SHARES")
	})
}

func TestGetUserTrades(t *testing.T) {
	ctx := context.Background()

	t.Run("most_recent_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 1, 150)
		testutil.AssertNoError(t, err)
		_, err = svc.ExecuteTrade(ctx, user.ID, "MSFT", models.TradeSideBuy, 1, 300)
		testutil.AssertNoError(t, err)

		page, err := svc.GetUserTrades(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Fatalf("expected 2 trades, got %d", page.TotalItems)
		}
		if len(page.Data) != 2 {
			t.Fatalf("expected 2 trades in page, got %d", len(page.Data))
		}
		if page.Data[0].ExecutedAt.Before(page.Data[1].ExecutedAt) {
			t.Error("expected most recent trade first")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 1, 10)
			testutil.AssertNoError(t, err)
		}

		page, err := svc.GetUserTrades(user.ID, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 5 || page.TotalPages != 3 || len(page.Data) != 2 {
			t.Errorf("unexpected pagination: total=%d pages=%d len=%d", page.TotalItems, page.TotalPages, len(page.Data))
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, other.ID, "AAPL", models.TradeSideBuy, 1, 150)
		testutil.AssertNoError(t, err)

		page, err := svc.GetUserTrades(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 0 {
			t.Errorf("expected no trades for user, got %d", page.TotalItems)
		}
	})
}

func TestClearTrades(t *testing.T) {
	ctx := context.Background()

	t.Run("clears_history_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ExecuteTrade(ctx, user.ID, "AAPL", models.TradeSideBuy, 10, 150)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.ClearTrades(user.ID))

		var trades, holdings int64
		db.Model(&models.Trade{}).Where("user_id = ?", user.ID).Count(&trades)
		db.Model(&models.Holding{}).Where("user_id = ?", user.ID).Count(&holdings)
		if trades != 0 {
			t.Errorf("expected trades cleared, got %d", trades)
		}
		if holdings != 1 {
			t.Errorf("expected holding untouched, got %d", holdings)
		}

		var updated models.User
		testutil.AssertNoError(t, db.First(&updated, "id = ?", user.ID).Error)
		testutil.AssertMoneyEqual(t, models.StartingCashBalance-1501.50, updated.CashBalance, "cash balance")
	})
}
