package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"alphastock/internal/errors"
	"alphastock/internal/logger"
	"alphastock/internal/models"
)

// alertService manages price alerts and evaluates them against live quotes.
type alertService struct {
	db     *gorm.DB
	quotes QuoteFetcher
}

// NewAlertService creates a new alert service instance.
func NewAlertService(db *gorm.DB, quotes QuoteFetcher) AlertServicer {
	return &alertService{db: db, quotes: quotes}
}

// CreateAlert registers a new price alert and immediately evaluates it
// once, so an alert created past its threshold fires right away. The
// immediate check is best effort; a quote failure leaves the alert armed.
func (s *alertService) CreateAlert(ctx context.Context, userID, ticker string, condition models.AlertCondition, targetPrice float64) (*models.Alert, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "ticker is required")
	}
	if condition != models.AlertConditionAbove && condition != models.AlertConditionBelow {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "condition must be above or below")
	}
	if targetPrice <= 0 {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "target price must be greater than zero")
	}

	alert := &models.Alert{
		UserID:      userID,
		Ticker:      ticker,
		Condition:   condition,
		TargetPrice: targetPrice,
		IsActive:    true,
	}
	if err := s.db.Create(alert).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	if price, ok := s.quotes.FetchPrice(ctx, ticker); ok {
		if conditionMet(condition, price, targetPrice) {
			if err := s.fireAlert(alert, price); err != nil {
				logger.Get().Warnw("immediate alert check failed", "alert_id", alert.ID, "error", err)
			}
		}
	}
	return alert, nil
}

// GetUserAlerts returns all of the user's alerts, newest first.
func (s *alertService) GetUserAlerts(userID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&alerts).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return alerts, nil
}

// SetAlertActive arms or disarms an alert. Re-arming a triggered alert
// does not clear its triggered state.
func (s *alertService) SetAlertActive(userID, alertID string, active bool) (*models.Alert, error) {
	var alert models.Alert
	err := s.db.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAlertNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	if err := s.db.Model(&alert).Update("is_active", active).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	alert.IsActive = active
	return &alert, nil
}

// DeleteAlert removes an alert owned by the user.
func (s *alertService) DeleteAlert(userID, alertID string) error {
	res := s.db.Where("id = ? AND user_id = ?", alertID, userID).Delete(&models.Alert{})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrAlertNotFound
	}
	return nil
}

// CheckAlerts evaluates every active, untriggered alert against a fresh
// quote. Quotes are fetched once per distinct ticker, concurrently. A
// ticker whose quote cannot be resolved is skipped and its alerts stay
// armed for the next pass.
func (s *alertService) CheckAlerts(ctx context.Context) (*AlertCheckResult, error) {
	var alerts []models.Alert
	err := s.db.Where("is_active = ? AND triggered = ?", true, false).Find(&alerts).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	result := &AlertCheckResult{Checked: len(alerts)}
	if len(alerts) == 0 {
		return result, nil
	}

	tickerSet := make(map[string]struct{})
	for i := range alerts {
		tickerSet[alerts[i].Ticker] = struct{}{}
	}

	prices := make(map[string]float64)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for ticker := range tickerSet {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			price, ok := s.quotes.FetchPrice(ctx, ticker)
			if !ok {
				logger.Get().Warnw("alert check skipped ticker", "ticker", ticker)
				return
			}
			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	for i := range alerts {
		price, ok := prices[alerts[i].Ticker]
		if !ok {
			continue
		}
		if !conditionMet(alerts[i].Condition, price, alerts[i].TargetPrice) {
			continue
		}
		if err := s.fireAlert(&alerts[i], price); err != nil {
			logger.Get().Errorw("alert trigger failed", "alert_id", alerts[i].ID, "error", err)
			continue
		}
		result.Triggered++
	}

	if result.Triggered > 0 {
		logger.Get().Infow("alerts triggered", "checked", result.Checked, "triggered", result.Triggered)
	}
	return result, nil
}

// conditionMet reports whether a price satisfies an alert threshold.
// Boundaries are inclusive in both directions.
func conditionMet(condition models.AlertCondition, price, target float64) bool {
	if condition == models.AlertConditionAbove {
		return price >= target
	}
	return price <= target
}

// fireAlert marks the alert as triggered, deactivates it so it never
// fires twice, and delivers a notification, all in one transaction.
func (s *alertService) fireAlert(alert *models.Alert, price float64) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Alert{}).
			Where("id = ? AND triggered = ?", alert.ID, false).
			Updates(map[string]interface{}{
				"triggered":    true,
				"is_active":    false,
				"triggered_at": now,
			})
		if res.Error != nil {
			return errors.Wrap(errors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			// Another pass beat us to it.
			return nil
		}
		alert.Triggered = true
		alert.IsActive = false
		alert.TriggeredAt = &now

		notification := &models.Notification{
			UserID: alert.UserID,
			Title:  fmt.Sprintf("Price Alert Triggered: %s", alert.Ticker),
			Message: fmt.Sprintf("%s is now %s $%.2f. Current price: $%.2f",
				alert.Ticker, alert.Condition, alert.TargetPrice, price),
			Type: models.NotificationTypeAlert,
		}
		if err := tx.Create(notification).Error; err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}
		return nil
	})
}
