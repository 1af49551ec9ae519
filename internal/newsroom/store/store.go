package store

import (
	"context"
	"errors"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the persistence port. Business logic only ever talks to this
// interface; concrete drivers (sqlite today) implement it. Sub-repositories
// are exposed as methods to keep concerns tidy and individually mockable.
type Store interface {
	Users() Users
	Credentials() Credentials
	Sessions() Sessions
	Articles() Articles
	Chat() Chat
	Todos() Todos
	Notifications() Notifications
	NotificationSettings() NotificationSettings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil error and
	// rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the backing medium is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername matches case-insensitively, across active and
	// inactive users.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the mutable profile fields (username, email,
	// names, role, active flag).
	UpdateUser(ctx context.Context, u domain.User) error

	// SetLastLogin stamps the last successful login time.
	SetLastLogin(ctx context.Context, userID string, t time.Time) error

	// DeleteUser removes the user row; credentials cascade per schema.
	DeleteUser(ctx context.Context, userID string) error

	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty reports whether no users exist yet (bootstrap gate).
	IsEmpty(ctx context.Context) (bool, error)
}

// Credentials is the password-hash side table, keyed by user id. Kept
// separate from Users so profile reads never touch hash material.
type Credentials interface {
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	SetPasswordHash(ctx context.Context, userID string, hash string) error
	DeletePasswordHash(ctx context.Context, userID string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsForUser(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Articles interface {
	// GetArticleByID returns the article with its review comments, oldest
	// comment first.
	GetArticleByID(ctx context.Context, id string) (domain.Article, error)

	CreateArticle(ctx context.Context, a domain.Article) error

	// UpdateArticle overwrites the mutable fields (title, subtitle, body,
	// category, tags, cover image, status, updated/published timestamps).
	// Comments are not touched.
	UpdateArticle(ctx context.Context, a domain.Article) error

	DeleteArticle(ctx context.Context, id string) error

	ListArticles(ctx context.Context) ([]domain.Article, error)
	ListArticlesByAuthor(ctx context.Context, authorID string) ([]domain.Article, error)
	ListArticlesByStatus(ctx context.Context, status domain.ArticleStatus) ([]domain.Article, error)

	// AddComment appends a review comment to its article.
	AddComment(ctx context.Context, c domain.ReviewComment) error
}

type Chat interface {
	CreateMessage(ctx context.Context, m domain.ChatMessage) error
	GetMessageByID(ctx context.Context, id string) (domain.ChatMessage, error)
	DeleteMessage(ctx context.Context, id string) error

	// ListMessages returns the full log in chronological order.
	ListMessages(ctx context.Context) ([]domain.ChatMessage, error)
}

type Todos interface {
	CreateTodo(ctx context.Context, t domain.TodoItem) error
	GetTodoByID(ctx context.Context, id string) (domain.TodoItem, error)
	UpdateTodo(ctx context.Context, t domain.TodoItem) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodos(ctx context.Context) ([]domain.TodoItem, error)
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.Notification) error
	GetNotificationByID(ctx context.Context, id string) (domain.Notification, error)

	// ListNotificationsForUser returns the user's notifications newest first.
	ListNotificationsForUser(ctx context.Context, userID string) ([]domain.Notification, error)

	CountNotificationsForUser(ctx context.Context, userID string) (int, error)
	CountUnreadForUser(ctx context.Context, userID string) (int, error)

	// OldestReadForUser returns the oldest read notification, or
	// ErrNotFound when the user has no read notifications. Used for cap
	// eviction.
	OldestReadForUser(ctx context.Context, userID string) (domain.Notification, error)

	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) error

	DeleteNotification(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

type NotificationSettings interface {
	// GetSettings returns ErrNotFound when the user has never saved
	// settings; the service layer substitutes defaults.
	GetSettings(ctx context.Context, userID string) (domain.NotificationSettings, error)

	// UpsertSettings inserts or fully replaces the user's settings record.
	UpsertSettings(ctx context.Context, s domain.NotificationSettings) error
}
