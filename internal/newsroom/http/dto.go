package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

// UserResponse is the public shape of a user. Credentials never appear here.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

type CommentResponse struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCommentResponse(c domain.ReviewComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		AuthorRole: string(c.AuthorRole),
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

type ArticleResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Body        string            `json:"body"`
	AuthorID    string            `json:"author_id"`
	AuthorName  string            `json:"author_name"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags"`
	Status      string            `json:"status"`
	CoverImage  string            `json:"cover_image,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

func toArticleResponse(a domain.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Subtitle:    a.Subtitle,
		Body:        a.Body,
		AuthorID:    a.AuthorID,
		AuthorName:  a.AuthorName,
		Category:    a.Category,
		Tags:        a.Tags,
		Status:      string(a.Status),
		CoverImage:  a.CoverImage,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		PublishedAt: a.PublishedAt,
		Comments:    make([]CommentResponse, 0, len(a.Comments)),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, c := range a.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}
	return resp
}

func toArticleResponses(articles []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a))
	}
	return out
}

type ChatMessageResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func toChatMessageResponse(m domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:         m.ID,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		AuthorRole: string(m.AuthorRole),
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

type TodoResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	AssigneeID   string     `json:"assignee_id,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	Priority     string     `json:"priority"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatorID    string     `json:"creator_id"`
	CreatorName  string     `json:"creator_name"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toTodoResponse(t domain.TodoItem) TodoResponse {
	return TodoResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		Priority:     string(t.Priority),
		Completed:    t.Completed,
		CompletedAt:  t.CompletedAt,
		CreatorID:    t.CreatorID,
		CreatorName:  t.CreatorName,
		CreatedAt:    t.CreatedAt,
	}
}

type NotificationResponse struct {
	ID        string                     `json:"id"`
	Type      string                     `json:"type"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Priority  string                     `json:"priority"`
	Read      bool                       `json:"read"`
	ReadAt    *time.Time                 `json:"read_at,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	Payload   domain.NotificationPayload `json:"payload"`
}

func toNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Priority:  string(n.Priority),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		Payload:   n.Payload,
	}
}

type NotificationSettingsBody struct {
	EnableDesktop         bool    `json:"enable_desktop"`
	EnableInApp           bool    `json:"enable_in_app"`
	EnableSound           bool    `json:"enable_sound"`
	NotifyChatMentions    bool    `json:"notify_chat_mentions"`
	NotifyChatMessages    bool    `json:"notify_chat_messages"`
	NotifyArticleStatus   bool    `json:"notify_article_status"`
	NotifyArticleComments bool    `json:"notify_article_comments"`
	NotifyTaskAssigned    bool    `json:"notify_task_assigned"`
	NotifyTaskCompleted   bool    `json:"notify_task_completed"`
	SoundVolume           float64 `json:"sound_volume"`
	QuietHoursEnabled     bool    `json:"quiet_hours_enabled"`
	QuietHoursStart       string  `json:"quiet_hours_start"`
	QuietHoursEnd         string  `json:"quiet_hours_end"`
	Permission            string  `json:"permission"`
}

func toSettingsBody(s domain.NotificationSettings) NotificationSettingsBody {
	return NotificationSettingsBody{
		EnableDesktop:         s.EnableDesktop,
		EnableInApp:           s.EnableInApp,
		EnableSound:           s.EnableSound,
		NotifyChatMentions:    s.NotifyChatMentions,
		NotifyChatMessages:    s.NotifyChatMessages,
		NotifyArticleStatus:   s.NotifyArticleStatus,
		NotifyArticleComments: s.NotifyArticleComments,
		NotifyTaskAssigned:    s.NotifyTaskAssigned,
		NotifyTaskCompleted:   s.NotifyTaskCompleted,
		SoundVolume:           s.SoundVolume,
		QuietHoursEnabled:     s.QuietHoursEnabled,
		QuietHoursStart:       s.QuietHoursStart,
		QuietHoursEnd:         s.QuietHoursEnd,
		Permission:            string(s.Permission),
	}
}

func fromSettingsBody(userID string, b NotificationSettingsBody) domain.NotificationSettings {
	return domain.NotificationSettings{
		UserID:                userID,
		EnableDesktop:         b.EnableDesktop,
		EnableInApp:           b.EnableInApp,
		EnableSound:           b.EnableSound,
		NotifyChatMentions:    b.NotifyChatMentions,
		NotifyChatMessages:    b.NotifyChatMessages,
		NotifyArticleStatus:   b.NotifyArticleStatus,
		NotifyArticleComments: b.NotifyArticleComments,
		NotifyTaskAssigned:    b.NotifyTaskAssigned,
		NotifyTaskCompleted:   b.NotifyTaskCompleted,
		SoundVolume:           b.SoundVolume,
		QuietHoursEnabled:     b.QuietHoursEnabled,
		QuietHoursStart:       b.QuietHoursStart,
		QuietHoursEnd:         b.QuietHoursEnd,
		Permission:            domain.PermissionState(b.Permission),
	}
}

// actorFrom rebuilds the service actor from what the authn middleware put
// into the request context.
func actorFrom(r *http.Request) service.Actor {
	ctx := r.Context()
	return service.Actor{
		ID:   httpx.UserIDFromCtx(ctx),
		Role: domain.Role(httpx.RoleFromCtx(ctx)),
	}
}

// decodeBody parses the JSON request body into v, replying 400 and returning
// false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "request body must be valid JSON")
		return false
	}
	return true
}

// writeServiceError maps service-layer errors onto HTTP status codes and the
// uniform error envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrTodoNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRegistrationDisabled):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnsupportedSchema):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
