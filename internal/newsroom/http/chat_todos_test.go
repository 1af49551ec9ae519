package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatFlow(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")

	var posted ChatMessageResponse

	t.Run("post and list", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/chat/messages", writerToken, PostMessageRequest{
			Body: "Ciao @rita, puoi rileggere il mio pezzo?",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(t, resp, &posted)
		require.Equal(t, "walter Test", posted.AuthorName)

		resp = f.do(http.MethodGet, "/v1/chat/messages", reviewerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []ChatMessageResponse
		decode(t, resp, &list)
		require.Len(t, list, 1)
		require.Equal(t, posted.ID, list[0].ID)
	})

	t.Run("the mention produced a notification", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications", reviewerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []NotificationResponse
		decode(t, resp, &list)
		require.Len(t, list, 1)
		require.Equal(t, "chat_mention", list[0].Type)
		require.False(t, list[0].Read)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/chat/messages", writerToken, PostMessageRequest{Body: "   "})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the author or an admin deletes", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/v1/chat/messages/"+posted.ID, reviewerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = f.do(http.MethodDelete, "/v1/chat/messages/"+posted.ID, writerToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestTodoFlow(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")

	resp := f.do(http.MethodGet, "/v1/auth/session", writerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var writer UserResponse
	decode(t, resp, &writer)

	var todo TodoResponse

	t.Run("writers may not create todos", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/todos", writerToken, TodoRequest{Title: "Nope"})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("reviewer assigns a todo to the writer", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/todos", reviewerToken, TodoRequest{
			Title:      "Controlla le foto",
			AssigneeID: writer.ID,
			Priority:   "high",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(t, resp, &todo)
		require.Equal(t, "high", todo.Priority)
		require.False(t, todo.Completed)
	})

	t.Run("the assignee was notified", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications/unread", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out UnreadCountResponse
		decode(t, resp, &out)
		require.Equal(t, 1, out.Count)
	})

	t.Run("the assignee completes it", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/todos/"+todo.ID+"/toggle", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		decode(t, resp, &todo)
		require.True(t, todo.Completed)
		require.NotNil(t, todo.CompletedAt)
	})

	t.Run("writers may not delete todos", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/v1/todos/"+todo.ID, writerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("the reviewer deletes it", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/v1/todos/"+todo.ID, reviewerToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")

	// Mention the writer twice to have something to mark.
	for _, body := range []string{"@walter primo", "@walter secondo"} {
		resp := f.do(http.MethodPost, "/v1/chat/messages", reviewerToken, PostMessageRequest{Body: body})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var list []NotificationResponse
	resp := f.do(http.MethodGet, "/v1/notifications", writerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	require.Len(t, list, 2)

	t.Run("mark one read", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/notifications/"+list[0].ID+"/read", writerToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var out UnreadCountResponse
		resp = f.do(http.MethodGet, "/v1/notifications/unread", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &out)
		require.Equal(t, 1, out.Count)
	})

	t.Run("someone else's notification is off limits", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/notifications/"+list[0].ID+"/read", reviewerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("mark all read", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/notifications/read", writerToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var out UnreadCountResponse
		resp = f.do(http.MethodGet, "/v1/notifications/unread", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &out)
		require.Equal(t, 0, out.Count)
	})

	t.Run("delete all", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/v1/notifications", writerToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var remaining []NotificationResponse
		resp = f.do(http.MethodGet, "/v1/notifications", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &remaining)
		require.Empty(t, remaining)
	})
}

func TestNotificationSettingsEndpoints(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")

	t.Run("defaults come back before any save", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications/settings", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out NotificationSettingsBody
		decode(t, resp, &out)
		require.True(t, out.NotifyChatMentions)
		require.False(t, out.NotifyChatMessages)
		require.InDelta(t, 0.5, out.SoundVolume, 0.001)
		require.Equal(t, "22:00", out.QuietHoursStart)
	})

	t.Run("update round-trips", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications/settings", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body NotificationSettingsBody
		decode(t, resp, &body)

		body.QuietHoursEnabled = true
		body.SoundVolume = 0.8

		resp = f.do(http.MethodPut, "/v1/notifications/settings", writerToken, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out NotificationSettingsBody
		decode(t, resp, &out)
		require.True(t, out.QuietHoursEnabled)
		require.InDelta(t, 0.8, out.SoundVolume, 0.001)
	})

	t.Run("bad volume is rejected", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications/settings", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body NotificationSettingsBody
		decode(t, resp, &body)

		body.SoundVolume = 1.5
		resp = f.do(http.MethodPut, "/v1/notifications/settings", writerToken, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
