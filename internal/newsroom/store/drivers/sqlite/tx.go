package sqlite

import (
	"context"
	"database/sql"

	"github.com/matteiweekly/newsroom/internal/newsroom/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits/rolls back

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users               { return &usersRepo{db: t.tx} }
func (t *txStore) Credentials() store.Credentials   { return &credentialsRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions         { return &sessionsRepo{db: t.tx} }
func (t *txStore) Articles() store.Articles         { return &articlesRepo{db: t.tx} }
func (t *txStore) Chat() store.Chat                 { return &chatRepo{db: t.tx} }
func (t *txStore) Todos() store.Todos               { return &todosRepo{db: t.tx} }
func (t *txStore) Notifications() store.Notifications {
	return &notificationsRepo{db: t.tx}
}

func (t *txStore) NotificationSettings() store.NotificationSettings {
	return &settingsRepo{db: t.tx}
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts
