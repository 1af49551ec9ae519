package sqlite

import (
	"context"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

type settingsRepo struct {
	db dbtx
}

func (r *settingsRepo) GetSettings(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	var (
		s          domain.NotificationSettings
		permission string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, enable_desktop, enable_in_app, enable_sound,
		        notify_chat_mentions, notify_chat_messages, notify_article_status,
		        notify_article_comments, notify_task_assigned, notify_task_completed,
		        sound_volume, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, permission
		 FROM notification_settings WHERE user_id = ?`, userID).
		Scan(&s.UserID, &s.EnableDesktop, &s.EnableInApp, &s.EnableSound,
			&s.NotifyChatMentions, &s.NotifyChatMessages, &s.NotifyArticleStatus,
			&s.NotifyArticleComments, &s.NotifyTaskAssigned, &s.NotifyTaskCompleted,
			&s.SoundVolume, &s.QuietHoursEnabled, &s.QuietHoursStart, &s.QuietHoursEnd, &permission)
	if err != nil {
		return domain.NotificationSettings{}, mapNotFound(err)
	}
	s.Permission = domain.PermissionState(permission)
	return s, nil
}

func (r *settingsRepo) UpsertSettings(ctx context.Context, s domain.NotificationSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_settings (
		     user_id, enable_desktop, enable_in_app, enable_sound,
		     notify_chat_mentions, notify_chat_messages, notify_article_status,
		     notify_article_comments, notify_task_assigned, notify_task_completed,
		     sound_volume, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, permission
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     enable_desktop = excluded.enable_desktop,
		     enable_in_app = excluded.enable_in_app,
		     enable_sound = excluded.enable_sound,
		     notify_chat_mentions = excluded.notify_chat_mentions,
		     notify_chat_messages = excluded.notify_chat_messages,
		     notify_article_status = excluded.notify_article_status,
		     notify_article_comments = excluded.notify_article_comments,
		     notify_task_assigned = excluded.notify_task_assigned,
		     notify_task_completed = excluded.notify_task_completed,
		     sound_volume = excluded.sound_volume,
		     quiet_hours_enabled = excluded.quiet_hours_enabled,
		     quiet_hours_start = excluded.quiet_hours_start,
		     quiet_hours_end = excluded.quiet_hours_end,
		     permission = excluded.permission`,
		s.UserID, s.EnableDesktop, s.EnableInApp, s.EnableSound,
		s.NotifyChatMentions, s.NotifyChatMessages, s.NotifyArticleStatus,
		s.NotifyArticleComments, s.NotifyTaskAssigned, s.NotifyTaskCompleted,
		s.SoundVolume, s.QuietHoursEnabled, s.QuietHoursStart, s.QuietHoursEnd,
		string(s.Permission))
	return err
}
