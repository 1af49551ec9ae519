package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

// previewLimit bounds the message excerpt carried in notification payloads.
const previewLimit = 120

// truncatePreview cuts s to at most previewLimit runes, never splitting a
// UTF-8 sequence.
func truncatePreview(s string) string {
	if len(s) <= previewLimit {
		return s
	}
	n := 0
	for i := range s {
		if n == previewLimit {
			return s[:i]
		}
		n++
	}
	return s
}

// MaxNotificationsPerUser caps stored notifications per recipient. When the
// cap is hit the oldest read notification is evicted; if everything is
// unread the cap is temporarily exceeded rather than losing unread items.
const MaxNotificationsPerUser = 100

// Event is a domain occurrence to be turned into a notification for one
// recipient.
type Event struct {
	UserID  string
	Type    domain.NotificationType
	Title   string
	Message string
	Payload domain.NotificationPayload
}

// Delivery tells the client how to surface a notification. The server never
// pushes; it only records and hints.
type Delivery struct {
	InApp   bool
	Desktop bool
	Sound   bool
	Volume  float64
}

// Dispatcher applies a recipient's settings to an event and persists the
// resulting notification.
type Dispatcher struct {
	Store store.Store

	// Now is overridable for quiet-hours tests. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Dispatch runs the full pipeline for one event: per-type toggle, quiet
// hours, priority derivation, cap eviction, persistence. A suppressed event
// returns (nil, Delivery{}, nil).
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*domain.Notification, Delivery, error) {
	l := slogx.FromContext(ctx)

	settings, err := d.settingsFor(ctx, ev.UserID)
	if err != nil {
		return nil, Delivery{}, err
	}

	if !typeEnabled(settings, ev.Type) {
		l.Debug("notification suppressed by type toggle", "user_id", ev.UserID, "type", string(ev.Type))
		return nil, Delivery{}, nil
	}
	if QuietHoursActive(settings, d.now()) {
		l.Debug("notification suppressed by quiet hours", "user_id", ev.UserID, "type", string(ev.Type))
		return nil, Delivery{}, nil
	}

	n := domain.Notification{
		ID:        idx.New().String(),
		UserID:    ev.UserID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		Priority:  PriorityFor(ev.Type),
		Read:      false,
		CreatedAt: d.now(),
		Payload:   ev.Payload,
	}

	err = d.Store.WithTx(ctx, func(tx store.Tx) error {
		count, err := tx.Notifications().CountNotificationsForUser(ctx, ev.UserID)
		if err != nil {
			return err
		}
		if count >= MaxNotificationsPerUser {
			oldest, err := tx.Notifications().OldestReadForUser(ctx, ev.UserID)
			switch {
			case err == nil:
				if err := tx.Notifications().DeleteNotification(ctx, oldest.ID); err != nil {
					return err
				}
			case errors.Is(err, store.ErrNotFound):
				// Everything unread; let the cap slip rather than drop
				// something the user has not seen.
			default:
				return err
			}
		}
		return tx.Notifications().CreateNotification(ctx, n)
	})
	if err != nil {
		return nil, Delivery{}, err
	}

	delivery := Delivery{
		InApp:   settings.EnableInApp,
		Desktop: settings.EnableDesktop && settings.Permission == domain.PermissionGranted,
		Sound:   settings.EnableSound,
		Volume:  settings.SoundVolume,
	}
	return &n, delivery, nil
}

// Broadcast fans an event out to every user except the sender, running each
// recipient through the normal dispatch pipeline. Nothing in the request
// paths calls this today; the chat_message toggle exists for clients that
// opt in to full-firehose delivery.
func (d *Dispatcher) Broadcast(ctx context.Context, senderID string, ev Event) (int, error) {
	users, err := d.Store.Users().ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, u := range users {
		if u.ID == senderID || !u.Active {
			continue
		}
		ev.UserID = u.ID
		n, _, err := d.Dispatch(ctx, ev)
		if err != nil {
			return delivered, err
		}
		if n != nil {
			delivered++
		}
	}
	return delivered, nil
}

func (d *Dispatcher) settingsFor(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	settings, err := d.Store.NotificationSettings().GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.DefaultNotificationSettings(userID), nil
		}
		return domain.NotificationSettings{}, err
	}
	return settings, nil
}

// PriorityFor derives the stored priority from the notification type.
func PriorityFor(t domain.NotificationType) domain.NotificationPriority {
	switch t {
	case domain.NotifyChatMention,
		domain.NotifyTaskAssigned,
		domain.NotifyArticleApproved,
		domain.NotifyArticleRejected:
		return domain.NotifyHigh
	default:
		return domain.NotifyNormal
	}
}

func typeEnabled(s domain.NotificationSettings, t domain.NotificationType) bool {
	switch t {
	case domain.NotifyChatMention:
		return s.NotifyChatMentions
	case domain.NotifyChatMessage:
		return s.NotifyChatMessages
	case domain.NotifyArticleApproved, domain.NotifyArticleRejected, domain.NotifyArticlePublished:
		return s.NotifyArticleStatus
	case domain.NotifyArticleComment:
		return s.NotifyArticleComments
	case domain.NotifyTaskAssigned:
		return s.NotifyTaskAssigned
	case domain.NotifyTaskCompleted:
		return s.NotifyTaskCompleted
	case domain.NotifySystem:
		return true
	default:
		return true
	}
}

// QuietHoursActive reports whether now falls inside the configured quiet
// window. The window has minute resolution in local time and may wrap
// midnight (start 22:00, end 08:00 covers evening and early morning).
func QuietHoursActive(s domain.NotificationSettings, now time.Time) bool {
	if !s.QuietHoursEnabled {
		return false
	}

	start, err := parseClock(s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := parseClock(s.QuietHoursEnd)
	if err != nil {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if start <= end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// parseClock converts "HH:MM" to a minute-of-day offset.
func parseClock(v string) (int, error) {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	return h*60 + m, nil
}
