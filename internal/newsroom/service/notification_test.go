package service

import (
	"context"
	"testing"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/stretchr/testify/require"
)

func TestNotificationReads(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	d := &Dispatcher{Store: st}
	svc := &NotificationService{Store: st}
	alice := seedUser(t, st, "alice", domain.RoleWriter)
	bob := seedUser(t, st, "bob", domain.RoleWriter)

	var ids []string
	for _, title := range []string{"uno", "due", "tre"} {
		n, _, err := d.Dispatch(ctx, Event{UserID: alice.ID, Type: domain.NotifySystem, Title: title, Message: "m"})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	t.Run("list is newest first", func(t *testing.T) {
		list, err := svc.List(ctx, asActor(alice))
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "tre", list[0].Title)
	})

	t.Run("unread count tracks reads", func(t *testing.T) {
		count, err := svc.UnreadCount(ctx, asActor(alice))
		require.NoError(t, err)
		require.Equal(t, 3, count)

		require.NoError(t, svc.MarkRead(ctx, asActor(alice), ids[0]))

		count, err = svc.UnreadCount(ctx, asActor(alice))
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("re-marking keeps the original read time", func(t *testing.T) {
		first, err := st.Notifications().GetNotificationByID(ctx, ids[0])
		require.NoError(t, err)
		require.NotNil(t, first.ReadAt)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, svc.MarkRead(ctx, asActor(alice), ids[0]))

		again, err := st.Notifications().GetNotificationByID(ctx, ids[0])
		require.NoError(t, err)
		require.Equal(t, first.ReadAt.Unix(), again.ReadAt.Unix())
	})

	t.Run("cannot touch someone else's notifications", func(t *testing.T) {
		err := svc.MarkRead(ctx, asActor(bob), ids[1])
		require.ErrorIs(t, err, ErrPermissionDenied)
		err = svc.Delete(ctx, asActor(bob), ids[1])
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("mark all read", func(t *testing.T) {
		require.NoError(t, svc.MarkAllRead(ctx, asActor(alice)))
		count, err := svc.UnreadCount(ctx, asActor(alice))
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("delete one and all", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, asActor(alice), ids[2]))
		err := svc.Delete(ctx, asActor(alice), ids[2])
		require.ErrorIs(t, err, ErrNotificationNotFound)

		require.NoError(t, svc.DeleteAll(ctx, asActor(alice)))
		list, err := svc.List(ctx, asActor(alice))
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestNotificationSettings(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &NotificationService{Store: st}
	alice := seedUser(t, st, "alice", domain.RoleWriter)

	t.Run("defaults before first save", func(t *testing.T) {
		settings, err := svc.GetSettings(ctx, asActor(alice))
		require.NoError(t, err)
		require.True(t, settings.NotifyChatMentions)
		require.False(t, settings.NotifyChatMessages)
		require.False(t, settings.QuietHoursEnabled)
		require.Equal(t, "22:00", settings.QuietHoursStart)
		require.Equal(t, "08:00", settings.QuietHoursEnd)
		require.InDelta(t, 0.5, settings.SoundVolume, 0.001)
		require.Equal(t, domain.PermissionDefault, settings.Permission)
	})

	t.Run("update persists", func(t *testing.T) {
		settings := domain.DefaultNotificationSettings(alice.ID)
		settings.QuietHoursEnabled = true
		settings.SoundVolume = 0.8
		settings.Permission = domain.PermissionGranted

		saved, err := svc.UpdateSettings(ctx, asActor(alice), settings)
		require.NoError(t, err)
		require.True(t, saved.QuietHoursEnabled)

		reloaded, err := svc.GetSettings(ctx, asActor(alice))
		require.NoError(t, err)
		require.True(t, reloaded.QuietHoursEnabled)
		require.InDelta(t, 0.8, reloaded.SoundVolume, 0.001)
		require.Equal(t, domain.PermissionGranted, reloaded.Permission)
	})

	t.Run("validation", func(t *testing.T) {
		bad := domain.DefaultNotificationSettings(alice.ID)
		bad.SoundVolume = 1.5
		bad.QuietHoursStart = "25:00"
		bad.Permission = "maybe"

		_, err := svc.UpdateSettings(ctx, asActor(alice), bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Problems, 3)
	})
}
