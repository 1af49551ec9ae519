package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

type notificationsRepo struct {
	db dbtx
}

const notificationColumns = `id, user_id, type, title, message, priority, read, read_at, created_at, payload`

func scanNotification(row interface{ Scan(...any) error }) (domain.Notification, error) {
	var (
		n        domain.Notification
		ntype    string
		priority string
		readAt   sql.NullTime
		payload  string
	)
	err := row.Scan(&n.ID, &n.UserID, &ntype, &n.Title, &n.Message, &priority,
		&n.Read, &readAt, &n.CreatedAt, &payload)
	if err != nil {
		return domain.Notification{}, err
	}
	n.Type = domain.NotificationType(ntype)
	n.Priority = domain.NotificationPriority(priority)
	n.ReadAt = mapNullTimePtr(readAt)
	if payload != "" && payload != "{}" {
		// A malformed payload only loses deep-link data, never the record.
		_ = json.Unmarshal([]byte(payload), &n.Payload)
	}
	return n, nil
}

func encodePayload(p domain.NotificationPayload) string {
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, priority, read, read_at, created_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, string(n.Priority),
		n.Read, mapOptionalTime(n.ReadAt), n.CreatedAt, encodePayload(n.Payload))
	return mapUniqueViolation(err)
}

func (r *notificationsRepo) GetNotificationByID(ctx context.Context, id string) (domain.Notification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err != nil {
		return domain.Notification{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notificationsRepo) ListNotificationsForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationsRepo) CountNotificationsForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *notificationsRepo) CountUnreadForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&count)
	return count, err
}

func (r *notificationsRepo) OldestReadForUser(ctx context.Context, userID string) (domain.Notification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = ? AND read = 1 ORDER BY created_at, id LIMIT 1`, userID)
	n, err := scanNotification(row)
	if err != nil {
		return domain.Notification{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1, read_at = ? WHERE id = ? AND read = 0`, at, id)
	if err != nil {
		return err
	}
	// Already-read notifications keep their original read_at.
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM notifications WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return mapNotFound(sql.ErrNoRows)
		}
	}
	return nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1, read_at = ? WHERE user_id = ? AND read = 0`, at, userID)
	return err
}

func (r *notificationsRepo) DeleteNotification(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *notificationsRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}
