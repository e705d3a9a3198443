package services

import (
	"testing"

	"alphastock/internal/models"
	"alphastock/internal/pagination"
	"alphastock/internal/testutil"
)

func TestGetUserNotifications(t *testing.T) {
	t.Run("lists_with_unread_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		first := testutil.CreateTestNotification(t, db, user.ID)
		testutil.CreateTestNotification(t, db, user.ID)
		testutil.AssertNoError(t, db.Model(first).Update("is_read", true).Error)

		page, unread, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 notifications, got %d", page.TotalItems)
		}
		if unread != 1 {
			t.Errorf("expected 1 unread, got %d", unread)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestNotification(t, db, other.ID)

		page, unread, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 0 || unread != 0 {
			t.Errorf("expected empty list, got %d items, %d unread", page.TotalItems, unread)
		}
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("marks_single", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestNotification(t, db, user.ID)

		testutil.AssertNoError(t, svc.MarkRead(user.ID, created.ID))

		var updated models.Notification
		testutil.AssertNoError(t, db.First(&updated, "id = ?", created.ID).Error)
		if !updated.IsRead {
			t.Error("expected notification marked read")
		}
	})

	t.Run("other_users_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestNotification(t, db, other.ID)

		err := svc.MarkRead(user.ID, created.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})

	t.Run("mark_all_returns_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestNotification(t, db, user.ID)
		testutil.CreateTestNotification(t, db, user.ID)
		testutil.CreateTestNotification(t, db, user.ID)

		updated, err := svc.MarkAllRead(user.ID)
		testutil.AssertNoError(t, err)
		if updated != 3 {
			t.Errorf("expected 3 updated, got %d", updated)
		}

		// A second pass has nothing left to mark.
		updated, err = svc.MarkAllRead(user.ID)
		testutil.AssertNoError(t, err)
		if updated != 0 {
			t.Errorf("expected 0 updated, got %d", updated)
		}
	})
}

func TestDeleteNotification(t *testing.T) {
	t.Run("deletes_own", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestNotification(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteNotification(user.ID, created.ID))
		err := svc.DeleteNotification(user.ID, created.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})
}
