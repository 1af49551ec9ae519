package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) *ChatService {
	t.Helper()
	st := newTestStore(t)
	return &ChatService{Store: st, Dispatcher: &Dispatcher{Store: st}}
}

func TestChatPost(t *testing.T) {
	ctx := context.Background()
	svc := newChatService(t)
	alice := seedUser(t, svc.Store, "alice", domain.RoleWriter)
	bob := seedUser(t, svc.Store, "bob", domain.RoleReviewer)

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := svc.Post(ctx, asActor(alice), "   ")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("snapshots author name and role", func(t *testing.T) {
		m, err := svc.Post(ctx, asActor(alice), "buongiorno")
		require.NoError(t, err)
		require.Equal(t, alice.DisplayName(), m.AuthorName)
		require.Equal(t, domain.RoleWriter, m.AuthorRole)
	})

	t.Run("mention notifies the target", func(t *testing.T) {
		m, err := svc.Post(ctx, asActor(alice), "ciao @bob, puoi controllare?")
		require.NoError(t, err)

		notifications, err := svc.Store.Notifications().ListNotificationsForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		require.Equal(t, domain.NotifyChatMention, notifications[0].Type)
		require.Equal(t, domain.NotifyHigh, notifications[0].Priority)
		require.Equal(t, m.ID, notifications[0].Payload.ChatMessageID)
		require.Equal(t, alice.ID, notifications[0].Payload.SenderID)
	})

	t.Run("mentions resolve case-insensitively", func(t *testing.T) {
		_, err := svc.Post(ctx, asActor(alice), "@BOB ping")
		require.NoError(t, err)

		count, err := svc.Store.Notifications().CountNotificationsForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("repeated mention in one message notifies once", func(t *testing.T) {
		_, err := svc.Post(ctx, asActor(alice), "@bob @bob @bob")
		require.NoError(t, err)

		count, err := svc.Store.Notifications().CountNotificationsForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, 3, count)
	})

	t.Run("unknown usernames and self mentions are ignored", func(t *testing.T) {
		_, err := svc.Post(ctx, asActor(bob), "@ghost @bob da solo")
		require.NoError(t, err)

		count, err := svc.Store.Notifications().CountNotificationsForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, 3, count) // unchanged
	})

	t.Run("long previews truncate on a rune boundary", func(t *testing.T) {
		body := "@bob " + strings.Repeat("à", 200)
		_, err := svc.Post(ctx, asActor(alice), body)
		require.NoError(t, err)

		notifications, err := svc.Store.Notifications().ListNotificationsForUser(ctx, bob.ID)
		require.NoError(t, err)
		preview := notifications[0].Payload.MessagePreview
		require.True(t, utf8.ValidString(preview))
		require.Equal(t, 120, utf8.RuneCountInString(preview))
	})
}

func TestChatListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newChatService(t)
	alice := seedUser(t, svc.Store, "alice", domain.RoleWriter)
	bob := seedUser(t, svc.Store, "bob", domain.RoleWriter)
	admin := seedUser(t, svc.Store, "root", domain.RoleAdmin)

	m1, err := svc.Post(ctx, asActor(alice), "primo")
	require.NoError(t, err)
	m2, err := svc.Post(ctx, asActor(bob), "secondo")
	require.NoError(t, err)

	t.Run("list is chronological", func(t *testing.T) {
		log, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, log, 2)
		require.Equal(t, m1.ID, log[0].ID)
		require.Equal(t, m2.ID, log[1].ID)
	})

	t.Run("only the author or an admin may delete", func(t *testing.T) {
		err := svc.Delete(ctx, asActor(bob), m1.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)

		require.NoError(t, svc.Delete(ctx, asActor(alice), m1.ID))
		require.NoError(t, svc.Delete(ctx, asActor(admin), m2.ID))

		err = svc.Delete(ctx, asActor(admin), m2.ID)
		require.ErrorIs(t, err, ErrMessageNotFound)
	})
}
