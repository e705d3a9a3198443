package services

import (
	"strings"

	"gorm.io/gorm"

	"alphastock/internal/errors"
	"alphastock/internal/models"
)

// watchlistService manages the user's watchlist.
type watchlistService struct {
	db *gorm.DB
}

// NewWatchlistService creates a new watchlist service instance.
func NewWatchlistService(db *gorm.DB) WatchlistServicer {
	return &watchlistService{db: db}
}

// GetWatchlist returns the user's watchlist in display order.
func (s *watchlistService) GetWatchlist(userID string) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	err := s.db.Where("user_id = ?", userID).Order("sort_order ASC").Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return entries, nil
}

// AddTicker appends a ticker to the end of the user's watchlist. Adding
// a ticker already on the list is a conflict.
func (s *watchlistService) AddTicker(userID, ticker string) (*models.WatchlistEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.WithMessage(errors.ErrInvalidInput, "ticker is required")
	}

	entry := &models.WatchlistEntry{UserID: userID, Ticker: ticker}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WatchlistEntry{}).
			Where("user_id = ? AND ticker = ?", userID, ticker).
			Count(&count).Error; err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}
		if count > 0 {
			return errors.ErrDuplicateWatchlistEntry
		}

		var maxOrder int
		row := tx.Model(&models.WatchlistEntry{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(sort_order), -1)").
			Row()
		if err := row.Scan(&maxOrder); err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}
		entry.SortOrder = maxOrder + 1

		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(errors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveTicker removes a ticker from the user's watchlist.
func (s *watchlistService) RemoveTicker(userID, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	res := s.db.Where("user_id = ? AND ticker = ?", userID, ticker).Delete(&models.WatchlistEntry{})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
