package models

import (
	"time"

	"alphastock/internal/uuid"

	"gorm.io/gorm"
)

// TradeSide represents the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade is an immutable fill record: append-only time-series data,
// so no Base embed and no soft deletes. Rows are only ever removed by
// a per-user bulk clear of the trade history.
type Trade struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Ticker     string    `gorm:"not null" json:"ticker"`
	Side       TradeSide `gorm:"not null" json:"side"`
	Quantity   float64   `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"not null" json:"price"`
	Fee        float64   `gorm:"not null" json:"fee"`
	Total      float64   `gorm:"not null" json:"total"`
	ExecutedAt time.Time `gorm:"not null" json:"executed_at"`
}

// BeforeCreate hook generates a UUIDv7 and stamps the execution time
func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	if t.ExecutedAt.IsZero() {
		t.ExecutedAt = time.Now()
	}
	return nil
}
