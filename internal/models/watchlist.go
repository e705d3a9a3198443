package models

import (
	"time"

	"alphastock/internal/uuid"

	"gorm.io/gorm"
)

// WatchlistEntry represents a ticker a user is watching. SortOrder
// controls display order and is assigned max+1 on insert. Removals are
// hard deletes so a removed ticker can be re-added under the unique
// (user, ticker) index.
type WatchlistEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_watchlist_user_ticker" json:"user_id"`
	Ticker    string    `gorm:"not null;uniqueIndex:uq_watchlist_user_ticker" json:"ticker"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (w *WatchlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New()
	}
	return nil
}
