package sqlite

import (
	"context"
	"time"
)

type credentialsRepo struct {
	db dbtx
}

func (r *credentialsRepo) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM user_credentials WHERE user_id = ?`, userID).Scan(&hash)
	if err != nil {
		return "", mapNotFound(err)
	}
	return hash, nil
}

func (r *credentialsRepo) SetPasswordHash(ctx context.Context, userID string, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_credentials (user_id, password_hash, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`,
		userID, hash, time.Now().UTC())
	return err
}

func (r *credentialsRepo) DeletePasswordHash(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_credentials WHERE user_id = ?`, userID)
	return err
}
