package testutil_test

import (
	"testing"

	"alphastock/internal/errors"
	"alphastock/internal/models"
	"alphastock/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "holdings", "trades", "alerts", "notifications", "watchlist_entries"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}
	if user.CashBalance != models.StartingCashBalance {
		t.Errorf("expected starting balance, got %f", user.CashBalance)
	}

	holding := testutil.CreateTestHolding(t, db, user.ID, "AAPL", 10, 150)
	if holding.Ticker != "AAPL" || holding.Quantity != 10 {
		t.Errorf("unexpected holding: %+v", holding)
	}

	alert := testutil.CreateTestAlert(t, db, user.ID, "AAPL", models.AlertConditionAbove, 200)
	if !alert.IsActive || alert.Triggered {
		t.Errorf("expected armed untriggered alert, got %+v", alert)
	}

	notification := testutil.CreateTestNotification(t, db, user.ID)
	if notification.IsRead {
		t.Error("expected unread notification")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.ErrInsufficientFunds
	testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

	wrapped := errors.Wrap(errors.ErrInternalServer, err)
	testutil.AssertAppError(t, wrapped, "INTERNAL_ERROR")
}
