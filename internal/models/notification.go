package models

// NotificationType categorizes what produced a notification.
type NotificationType string

const (
	NotificationTypeTrade  NotificationType = "trade"
	NotificationTypeAlert  NotificationType = "alert"
	NotificationTypeSystem NotificationType = "system"
)

// Notification represents a message emitted by trade accounting or the
// alert evaluator. Users can mark notifications read and delete them.
type Notification struct {
	Base
	UserID  string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"not null" json:"message"`
	Type    NotificationType `gorm:"not null;default:'system'" json:"type"`
	IsRead  bool             `gorm:"default:false" json:"is_read"`
}
