package service

import (
	"context"
	"errors"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService is the read/manage side of notifications. Creation
// goes through the Dispatcher.
type NotificationService struct {
	Store store.Store
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor Actor) ([]domain.Notification, error) {
	return s.Store.Notifications().ListNotificationsForUser(ctx, actor.ID)
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, actor Actor) (int, error) {
	return s.Store.Notifications().CountUnreadForUser(ctx, actor.ID)
}

// MarkRead marks one of the caller's notifications as read. Re-marking keeps
// the original ReadAt.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	n, err := s.Store.Notifications().GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != actor.ID {
		return ErrPermissionDenied
	}
	return s.Store.Notifications().MarkRead(ctx, id, time.Now())
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) error {
	return s.Store.Notifications().MarkAllRead(ctx, actor.ID, time.Now())
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	n, err := s.Store.Notifications().GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != actor.ID {
		return ErrPermissionDenied
	}
	return s.Store.Notifications().DeleteNotification(ctx, id)
}

// DeleteAll clears the caller's notification list.
func (s *NotificationService) DeleteAll(ctx context.Context, actor Actor) error {
	return s.Store.Notifications().DeleteAllForUser(ctx, actor.ID)
}

// GetSettings returns the caller's settings, substituting defaults when the
// user has never saved any.
func (s *NotificationService) GetSettings(ctx context.Context, actor Actor) (domain.NotificationSettings, error) {
	settings, err := s.Store.NotificationSettings().GetSettings(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.DefaultNotificationSettings(actor.ID), nil
		}
		return domain.NotificationSettings{}, err
	}
	return settings, nil
}

// UpdateSettings validates and replaces the caller's settings record.
func (s *NotificationService) UpdateSettings(ctx context.Context, actor Actor, settings domain.NotificationSettings) (domain.NotificationSettings, error) {
	settings.UserID = actor.ID

	verr := &ValidationError{}
	if settings.SoundVolume < 0 || settings.SoundVolume > 1 {
		verr.add("sound volume must be between 0 and 1")
	}
	if _, err := parseClock(settings.QuietHoursStart); err != nil {
		verr.add("quiet hours start must be HH:MM")
	}
	if _, err := parseClock(settings.QuietHoursEnd); err != nil {
		verr.add("quiet hours end must be HH:MM")
	}
	switch settings.Permission {
	case domain.PermissionDefault, domain.PermissionGranted, domain.PermissionDenied:
	default:
		verr.add("unknown permission state " + string(settings.Permission))
	}
	if err := verr.orNil(); err != nil {
		return domain.NotificationSettings{}, err
	}

	if err := s.Store.NotificationSettings().UpsertSettings(ctx, settings); err != nil {
		return domain.NotificationSettings{}, err
	}
	return settings, nil
}
