package domain

import "time"

// NotificationType identifies the domain event a notification was produced
// from. The set is closed; the dispatcher derives priority from it.
type NotificationType string

const (
	NotifyChatMention      NotificationType = "chat_mention"
	NotifyChatMessage      NotificationType = "chat_message"
	NotifyArticleApproved  NotificationType = "article_approved"
	NotifyArticleRejected  NotificationType = "article_rejected"
	NotifyArticlePublished NotificationType = "article_published"
	NotifyArticleComment   NotificationType = "article_comment"
	NotifyTaskAssigned     NotificationType = "task_assigned"
	NotifyTaskCompleted    NotificationType = "task_completed"
	NotifySystem           NotificationType = "system"
)

type NotificationPriority string

const (
	NotifyLow    NotificationPriority = "low"
	NotifyNormal NotificationPriority = "normal"
	NotifyHigh   NotificationPriority = "high"
)

// NotificationPayload carries ids and previews used by the client for
// deep-linking. All fields are optional; which ones are set depends on the
// notification type.
type NotificationPayload struct {
	ArticleID      string `json:"article_id,omitempty"`
	ArticleTitle   string `json:"article_title,omitempty"`
	ChatMessageID  string `json:"chat_message_id,omitempty"`
	MessagePreview string `json:"message_preview,omitempty"`
	TodoID         string `json:"todo_id,omitempty"`
	TodoTitle      string `json:"todo_title,omitempty"`
	CommentID      string `json:"comment_id,omitempty"`
	CommentPreview string `json:"comment_preview,omitempty"`
	SenderID       string `json:"sender_id,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	URL            string `json:"url,omitempty"`
}

type Notification struct {
	ID       string
	UserID   string // recipient
	Type     NotificationType
	Title    string
	Message  string
	Priority NotificationPriority
	Read     bool
	// ReadAt is set iff Read is true.
	ReadAt    *time.Time
	CreatedAt time.Time
	Payload   NotificationPayload
}

// PermissionState mirrors the browser notification permission, persisted per
// user so the client can restore it across devices.
type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// NotificationSettings is one record per user, created lazily with defaults
// on first access and fully user-mutable.
type NotificationSettings struct {
	UserID string

	EnableDesktop bool
	EnableInApp   bool
	EnableSound   bool

	NotifyChatMentions    bool
	NotifyChatMessages    bool // off by default; mentions only
	NotifyArticleStatus   bool
	NotifyArticleComments bool
	NotifyTaskAssigned    bool
	NotifyTaskCompleted   bool

	SoundVolume float64 // 0.0 - 1.0

	QuietHoursEnabled bool
	QuietHoursStart   string // "HH:MM" local time
	QuietHoursEnd     string // "HH:MM", may be earlier than start (wraps midnight)

	Permission PermissionState
}

// DefaultNotificationSettings returns the settings a user starts with.
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:                userID,
		EnableDesktop:         true,
		EnableInApp:           true,
		EnableSound:           true,
		NotifyChatMentions:    true,
		NotifyChatMessages:    false,
		NotifyArticleStatus:   true,
		NotifyArticleComments: true,
		NotifyTaskAssigned:    true,
		NotifyTaskCompleted:   true,
		SoundVolume:           0.5,
		QuietHoursEnabled:     false,
		QuietHoursStart:       "22:00",
		QuietHoursEnd:         "08:00",
		Permission:            PermissionDefault,
	}
}
