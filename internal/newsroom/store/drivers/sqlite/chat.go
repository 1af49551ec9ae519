package sqlite

import (
	"context"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

type chatRepo struct {
	db dbtx
}

func (r *chatRepo) CreateMessage(ctx context.Context, m domain.ChatMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, author_id, author_name, author_role, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.AuthorID, m.AuthorName, string(m.AuthorRole), m.Body, m.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *chatRepo) GetMessageByID(ctx context.Context, id string) (domain.ChatMessage, error) {
	var (
		m    domain.ChatMessage
		role string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, author_name, author_role, body, created_at
		 FROM chat_messages WHERE id = ?`, id).
		Scan(&m.ID, &m.AuthorID, &m.AuthorName, &role, &m.Body, &m.CreatedAt)
	if err != nil {
		return domain.ChatMessage{}, mapNotFound(err)
	}
	m.AuthorRole = domain.Role(role)
	return m, nil
}

func (r *chatRepo) DeleteMessage(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *chatRepo) ListMessages(ctx context.Context) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, author_name, author_role, body, created_at
		 FROM chat_messages ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var (
			m    domain.ChatMessage
			role string
		)
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.AuthorName, &role, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.AuthorRole = domain.Role(role)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
