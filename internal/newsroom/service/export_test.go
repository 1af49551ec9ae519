package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	dispatcher := &Dispatcher{Store: st}
	articles := &ArticleService{Store: st, Dispatcher: dispatcher}
	chat := &ChatService{Store: st, Dispatcher: dispatcher}
	todos := &TodoService{Store: st, Dispatcher: dispatcher}
	exporter := &ExportService{Store: st}

	admin := seedUser(t, st, "root", domain.RoleAdmin)
	writer := seedUser(t, st, "writer", domain.RoleWriter)

	a := draftArticle(t, &ArticleService{Store: st, Dispatcher: dispatcher}, writer)
	a, err := articles.Submit(ctx, asActor(writer), a.ID)
	require.NoError(t, err)
	a, err = articles.Approve(ctx, asActor(admin), a.ID, "ok")
	require.NoError(t, err)

	_, err = chat.Post(ctx, asActor(writer), "ciao @root")
	require.NoError(t, err)
	_, err = todos.Create(ctx, asActor(admin), TodoInput{Title: "stampare", AssigneeID: writer.ID})
	require.NoError(t, err)

	settings := domain.DefaultNotificationSettings(writer.ID)
	settings.QuietHoursEnabled = true
	require.NoError(t, st.NotificationSettings().UpsertSettings(ctx, settings))

	t.Run("export is admin only", func(t *testing.T) {
		_, err := exporter.Export(ctx, asActor(writer))
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	bundle, err := exporter.Export(ctx, asActor(admin))
	require.NoError(t, err)
	require.Equal(t, ExportSchemaVersion, bundle.SchemaVersion)
	require.Len(t, bundle.Users, 2)
	require.Len(t, bundle.Articles, 1)
	require.Len(t, bundle.Chat, 1)
	require.Len(t, bundle.Todos, 1)
	require.NotEmpty(t, bundle.Notifications)
	require.Len(t, bundle.NotificationSettings, 1)

	t.Run("bundle serializes with collection keys", func(t *testing.T) {
		raw, err := json.Marshal(bundle)
		require.NoError(t, err)
		for _, key := range []string{"schema_version", "users", "articles", "chat", "todos", "notifications", "notification_settings"} {
			require.Contains(t, string(raw), `"`+key+`"`)
		}
	})

	t.Run("round trip into a fresh store", func(t *testing.T) {
		st2 := newTestStore(t)
		exporter2 := &ExportService{Store: st2}

		require.NoError(t, exporter2.Import(ctx, Actor{ID: admin.ID, Role: domain.RoleAdmin}, bundle))

		bundle2, err := exporter2.Export(ctx, Actor{ID: admin.ID, Role: domain.RoleAdmin})
		require.NoError(t, err)
		require.Equal(t, bundle.Users, bundle2.Users)
		require.Equal(t, bundle.Articles, bundle2.Articles)
		require.Equal(t, bundle.Chat, bundle2.Chat)
		require.Equal(t, bundle.Todos, bundle2.Todos)
		require.ElementsMatch(t, bundle.Notifications, bundle2.Notifications)
		require.Equal(t, bundle.NotificationSettings, bundle2.NotificationSettings)

		// Credentials never travel: no imported user can log in.
		_, err = st2.Credentials().GetPasswordHash(ctx, writer.ID)
		require.Error(t, err)
	})

	t.Run("import into a populated store upserts", func(t *testing.T) {
		renamed := bundle
		renamed.Users = append([]domain.User(nil), bundle.Users...)
		for i := range renamed.Users {
			if renamed.Users[i].ID == writer.ID {
				renamed.Users[i].LastName = "Renamed"
			}
		}

		require.NoError(t, exporter.Import(ctx, asActor(admin), renamed))

		u, err := st.Users().GetUserByID(ctx, writer.ID)
		require.NoError(t, err)
		require.Equal(t, "Renamed", u.LastName)

		// No duplicates were created.
		users, err := st.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("unsupported schema version rejected", func(t *testing.T) {
		bad := bundle
		bad.SchemaVersion = 99
		err := exporter.Import(ctx, asActor(admin), bad)
		require.ErrorIs(t, err, ErrUnsupportedSchema)
	})
}
