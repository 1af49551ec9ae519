package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

var ErrMessageNotFound = errors.New("message not found")

// mentionPattern matches @username tokens. Word characters only; trailing
// punctuation is naturally excluded.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

type ChatService struct {
	Store      store.Store
	Dispatcher *Dispatcher
}

// Post appends a message to the chat log and dispatches a chat_mention
// notification to every @mentioned user. Usernames resolve
// case-insensitively; unknown mentions and self-mentions are ignored.
func (s *ChatService) Post(ctx context.Context, actor Actor, body string) (domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ChatMessage{}, &ValidationError{Problems: []string{"message body is required"}}
	}

	sender, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	m := domain.ChatMessage{
		ID:         idx.New().String(),
		AuthorID:   sender.ID,
		AuthorName: sender.DisplayName(),
		AuthorRole: sender.Role,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.Store.Chat().CreateMessage(ctx, m); err != nil {
		return domain.ChatMessage{}, err
	}

	s.notifyMentions(ctx, sender, m)

	return m, nil
}

func (s *ChatService) notifyMentions(ctx context.Context, sender domain.User, m domain.ChatMessage) {
	l := slogx.FromContext(ctx)

	preview := truncatePreview(m.Body)

	notified := map[string]bool{}
	for _, match := range mentionPattern.FindAllStringSubmatch(m.Body, -1) {
		username := match[1]

		target, err := s.Store.Users().GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			l.Error("mention lookup failed", "username", username, "err", err)
			continue
		}
		if target.ID == sender.ID || notified[target.ID] {
			continue
		}
		notified[target.ID] = true

		ev := Event{
			UserID:  target.ID,
			Type:    domain.NotifyChatMention,
			Title:   sender.DisplayName() + " mentioned you",
			Message: preview,
			Payload: domain.NotificationPayload{
				ChatMessageID:  m.ID,
				MessagePreview: preview,
				SenderID:       sender.ID,
				SenderName:     sender.DisplayName(),
				URL:            "/chat",
			},
		}
		if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
			l.Error("failed to dispatch mention notification", "user_id", target.ID, "err", err)
		}
	}
}

// List returns the full chat log in chronological order.
func (s *ChatService) List(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.Store.Chat().ListMessages(ctx)
}

// Delete removes a message. Authors may delete their own; admins anything.
func (s *ChatService) Delete(ctx context.Context, actor Actor, messageID string) error {
	m, err := s.Store.Chat().GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if m.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return ErrPermissionDenied
	}
	return s.Store.Chat().DeleteMessage(ctx, messageID)
}
