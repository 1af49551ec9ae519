package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type ChatHandler struct {
	ChatService *service.ChatService
}

type PostMessageRequest struct {
	Body string `json:"body"`
}

// HandlePost appends a message to the team chat.
//
//	@Summary		Post a chat message
//	@Description	Posts a message to the shared team chat. Mentioned users (@username) are notified.
//	@Tags			Chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PostMessageRequest	true	"Message body"
//	@Success		201		{object}	ChatMessageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Empty message"
//	@Security		BearerAuth
//	@Router			/v1/chat/messages [post]
func (h *ChatHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	m, err := h.ChatService.Post(r.Context(), actorFrom(r), req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toChatMessageResponse(m))
}

// HandleList returns the chat history, oldest first.
//
//	@Summary	List chat messages
//	@Tags		Chat
//	@Produce	json
//	@Success	200	{array}	ChatMessageResponse
//	@Security	BearerAuth
//	@Router		/v1/chat/messages [get]
func (h *ChatHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.ChatService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toChatMessageResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete removes a message.
//
//	@Summary		Delete a chat message
//	@Description	Authors may delete their own messages; admins may delete any.
//	@Tags			Chat
//	@Produce		json
//	@Param			id	path	string	true	"Message id"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/chat/messages/{id} [delete]
func (h *ChatHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ChatService.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
