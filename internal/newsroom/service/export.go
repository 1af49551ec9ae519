package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

// ExportSchemaVersion is bumped whenever the bundle layout changes in a way
// importers must know about.
const ExportSchemaVersion = 1

var ErrUnsupportedSchema = errors.New("unsupported export schema version")

// ExportBundle is the full logical dump of the workspace, keyed by
// collection. Credentials and sessions are deliberately absent: a restored
// workspace starts with no valid logins and passwords must be reset.
type ExportBundle struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`

	Users                []domain.User                 `json:"users"`
	Articles             []domain.Article              `json:"articles"`
	Chat                 []domain.ChatMessage          `json:"chat"`
	Todos                []domain.TodoItem             `json:"todos"`
	Notifications        []domain.Notification         `json:"notifications"`
	NotificationSettings []domain.NotificationSettings `json:"notification_settings"`
}

type ExportService struct {
	Store store.Store
}

// Export produces the full dump. Admin only.
func (s *ExportService) Export(ctx context.Context, actor Actor) (ExportBundle, error) {
	if actor.Role != domain.RoleAdmin {
		return ExportBundle{}, ErrPermissionDenied
	}

	bundle := ExportBundle{
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    time.Now(),
	}

	var err error
	if bundle.Users, err = s.Store.Users().ListUsers(ctx); err != nil {
		return ExportBundle{}, fmt.Errorf("export users: %w", err)
	}
	if bundle.Articles, err = s.Store.Articles().ListArticles(ctx); err != nil {
		return ExportBundle{}, fmt.Errorf("export articles: %w", err)
	}
	if bundle.Chat, err = s.Store.Chat().ListMessages(ctx); err != nil {
		return ExportBundle{}, fmt.Errorf("export chat: %w", err)
	}
	if bundle.Todos, err = s.Store.Todos().ListTodos(ctx); err != nil {
		return ExportBundle{}, fmt.Errorf("export todos: %w", err)
	}

	for _, u := range bundle.Users {
		notifications, err := s.Store.Notifications().ListNotificationsForUser(ctx, u.ID)
		if err != nil {
			return ExportBundle{}, fmt.Errorf("export notifications for %s: %w", u.ID, err)
		}
		bundle.Notifications = append(bundle.Notifications, notifications...)

		settings, err := s.Store.NotificationSettings().GetSettings(ctx, u.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return ExportBundle{}, fmt.Errorf("export settings for %s: %w", u.ID, err)
		}
		bundle.NotificationSettings = append(bundle.NotificationSettings, settings)
	}

	slogx.FromContext(ctx).Info("export produced",
		"users", len(bundle.Users),
		"articles", len(bundle.Articles),
		"chat", len(bundle.Chat),
		"todos", len(bundle.Todos),
		"notifications", len(bundle.Notifications),
	)
	return bundle, nil
}

// Import writes a bundle back, upserting every record by id so a round trip
// reproduces identical data. Admin only. Imported users carry no
// credentials; passwords are set through admin reset.
func (s *ExportService) Import(ctx context.Context, actor Actor, bundle ExportBundle) error {
	if actor.Role != domain.RoleAdmin {
		return ErrPermissionDenied
	}
	if bundle.SchemaVersion != ExportSchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSchema, bundle.SchemaVersion)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, u := range bundle.Users {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				if !errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("import user %s: %w", u.ID, err)
				}
				if err := tx.Users().UpdateUser(ctx, u); err != nil {
					return fmt.Errorf("import user %s: %w", u.ID, err)
				}
			}
		}

		for _, a := range bundle.Articles {
			comments := a.Comments
			if err := tx.Articles().CreateArticle(ctx, a); err != nil {
				if !errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("import article %s: %w", a.ID, err)
				}
				if err := tx.Articles().UpdateArticle(ctx, a); err != nil {
					return fmt.Errorf("import article %s: %w", a.ID, err)
				}
			}
			for _, c := range comments {
				if err := tx.Articles().AddComment(ctx, c); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("import comment %s: %w", c.ID, err)
				}
			}
		}

		for _, m := range bundle.Chat {
			// Chat messages are immutable; an existing id is the same record.
			if err := tx.Chat().CreateMessage(ctx, m); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("import chat message %s: %w", m.ID, err)
			}
		}

		for _, t := range bundle.Todos {
			if err := tx.Todos().CreateTodo(ctx, t); err != nil {
				if !errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("import todo %s: %w", t.ID, err)
				}
				if err := tx.Todos().UpdateTodo(ctx, t); err != nil {
					return fmt.Errorf("import todo %s: %w", t.ID, err)
				}
			}
		}

		for _, n := range bundle.Notifications {
			if err := tx.Notifications().CreateNotification(ctx, n); err != nil {
				if !errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("import notification %s: %w", n.ID, err)
				}
				if err := tx.Notifications().DeleteNotification(ctx, n.ID); err != nil {
					return fmt.Errorf("import notification %s: %w", n.ID, err)
				}
				if err := tx.Notifications().CreateNotification(ctx, n); err != nil {
					return fmt.Errorf("import notification %s: %w", n.ID, err)
				}
			}
		}

		for _, settings := range bundle.NotificationSettings {
			if err := tx.NotificationSettings().UpsertSettings(ctx, settings); err != nil {
				return fmt.Errorf("import settings for %s: %w", settings.UserID, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("import applied",
		"users", len(bundle.Users),
		"articles", len(bundle.Articles),
	)
	return nil
}
