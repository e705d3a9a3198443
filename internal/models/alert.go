package models

import "time"

// AlertCondition represents the direction a price alert watches.
type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "above"
	AlertConditionBelow AlertCondition = "below"
)

// Alert represents a price alert. The evaluator only considers alerts
// that are active and not yet triggered; firing flips Triggered on and
// IsActive off, so an alert never fires twice.
type Alert struct {
	Base
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Ticker      string         `gorm:"not null" json:"ticker"`
	Condition   AlertCondition `gorm:"not null" json:"condition"`
	TargetPrice float64        `gorm:"not null" json:"target_price"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Triggered   bool           `gorm:"default:false" json:"triggered"`
	TriggeredAt *time.Time     `json:"triggered_at,omitempty"`
}
