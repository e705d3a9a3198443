package models

import (
	"time"

	"alphastock/internal/uuid"

	"gorm.io/gorm"
)

// Holding represents a user's position in a single ticker. One row per
// (user, ticker) pair; quantity is always > 0. Selling a position down
// to zero deletes the row, discarding its cost basis.
//
// Deletes are hard (no soft-delete column): a tombstone would collide
// with the unique (user, ticker) index when the ticker is re-bought.
//
// AvgBuyPrice is the quantity-weighted mean across all buy fills and is
// never changed by sells.
type Holding struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_user_ticker" json:"user_id"`
	Ticker       string    `gorm:"not null;uniqueIndex:uq_holdings_user_ticker" json:"ticker"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	AvgBuyPrice  float64   `gorm:"not null" json:"avg_buy_price"`
	CurrentPrice float64   `json:"current_price"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}

// MarketValue returns the holding's value at the last known price,
// falling back to the average buy price when no quote has been seen.
func (h *Holding) MarketValue() float64 {
	price := h.CurrentPrice
	if price == 0 {
		price = h.AvgBuyPrice
	}
	return price * h.Quantity
}

// CostValue returns the holding's value at its average cost basis.
func (h *Holding) CostValue() float64 {
	return h.AvgBuyPrice * h.Quantity
}
