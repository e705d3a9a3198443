package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"alphastock/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email and
// the starting cash balance.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithBalance(t, db, models.StartingCashBalance)
}

// CreateTestUserWithBalance creates a user with the given cash balance.
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balance float64) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       fmt.Sprintf("user%d@test.com", nextID()),
		Password:    string(hash),
		FirstName:   "Test",
		LastName:    "User",
		CashBalance: balance,
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHolding creates a holding for the user.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, ticker string, quantity, avgBuyPrice float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:       userID,
		Ticker:       ticker,
		Quantity:     quantity,
		AvgBuyPrice:  avgBuyPrice,
		CurrentPrice: avgBuyPrice,
		LastUpdated:  time.Now(),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestAlert creates an armed, untriggered alert for the user.
func CreateTestAlert(t *testing.T, db *gorm.DB, userID, ticker string, condition models.AlertCondition, targetPrice float64) *models.Alert {
	t.Helper()

	alert := &models.Alert{
		UserID:      userID,
		Ticker:      ticker,
		Condition:   condition,
		TargetPrice: targetPrice,
		IsActive:    true,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	return alert
}

// CreateTestNotification creates an unread notification for the user.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Title:   fmt.Sprintf("Test Notification %d", nextID()),
		Message: "Something happened",
		Type:    models.NotificationTypeSystem,
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
