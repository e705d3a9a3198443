package services

import (
	"gorm.io/gorm"

	"alphastock/internal/errors"
	"alphastock/internal/models"
	"alphastock/internal/pagination"
)

// notificationService manages user notifications.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// GetUserNotifications returns the user's notifications, newest first,
// along with the unread count across all pages.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], int64, error) {
	page.Defaults()

	var total int64
	err := s.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrInternalServer, err)
	}

	var unread int64
	err = s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	err = s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(notifications, page.Page, page.PageSize, total)
	return &resp, unread, nil
}

// MarkRead marks a single notification as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's unread notifications as read and
// returns how many were updated.
func (s *notificationService) MarkAllRead(userID string) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteNotification removes a notification owned by the user.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	res := s.db.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return errors.Wrap(errors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrNotificationNotFound
	}
	return nil
}
