package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type NotificationsHandler struct {
	NotificationService *service.NotificationService
}

// HandleList returns the caller's notifications, newest first.
//
//	@Summary	List notifications
//	@Tags		Notifications
//	@Produce	json
//	@Success	200	{array}	NotificationResponse
//	@Security	BearerAuth
//	@Router		/v1/notifications [get]
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.NotificationService.List(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

// HandleUnreadCount returns how many of the caller's notifications are unread.
//
//	@Summary	Count unread notifications
//	@Tags		Notifications
//	@Produce	json
//	@Success	200	{object}	UnreadCountResponse
//	@Security	BearerAuth
//	@Router		/v1/notifications/unread [get]
func (h *NotificationsHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.NotificationService.UnreadCount(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, UnreadCountResponse{Count: count})
}

// HandleMarkRead marks one notification read.
//
//	@Summary	Mark a notification read
//	@Tags		Notifications
//	@Produce	json
//	@Param		id	path	string	true	"Notification id"
//	@Success	204	"Marked"
//	@Failure	403	{object}	httpx.ErrorResponse	"Not yours"
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/notifications/{id}/read [post]
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationService.MarkRead(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead marks every notification of the caller read.
//
//	@Summary	Mark all notifications read
//	@Tags		Notifications
//	@Produce	json
//	@Success	204	"Marked"
//	@Security	BearerAuth
//	@Router		/v1/notifications/read [post]
func (h *NotificationsHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationService.MarkAllRead(r.Context(), actorFrom(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes one notification.
//
//	@Summary	Delete a notification
//	@Tags		Notifications
//	@Produce	json
//	@Param		id	path	string	true	"Notification id"
//	@Success	204	"Deleted"
//	@Failure	403	{object}	httpx.ErrorResponse	"Not yours"
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/notifications/{id} [delete]
func (h *NotificationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationService.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAll clears the caller's notification list.
//
//	@Summary	Delete all notifications
//	@Tags		Notifications
//	@Produce	json
//	@Success	204	"Deleted"
//	@Security	BearerAuth
//	@Router		/v1/notifications [delete]
func (h *NotificationsHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationService.DeleteAll(r.Context(), actorFrom(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSettings returns the caller's notification settings, falling
// back to defaults when none were saved yet.
//
//	@Summary	Get notification settings
//	@Tags		Notifications
//	@Produce	json
//	@Success	200	{object}	NotificationSettingsBody
//	@Security	BearerAuth
//	@Router		/v1/notifications/settings [get]
func (h *NotificationsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.NotificationService.GetSettings(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingsBody(settings))
}

// HandleUpdateSettings replaces the caller's notification settings.
//
//	@Summary		Update notification settings
//	@Description	Replaces the caller's settings. Volume must be between 0 and 1, quiet hours use HH:MM.
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		NotificationSettingsBody	true	"New settings"
//	@Success		200		{object}	NotificationSettingsBody
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed"
//	@Security		BearerAuth
//	@Router			/v1/notifications/settings [put]
func (h *NotificationsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body NotificationSettingsBody
	if !decodeBody(w, r, &body) {
		return
	}

	actor := actorFrom(r)
	settings, err := h.NotificationService.UpdateSettings(r.Context(), actor, fromSettingsBody(actor.ID, body))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingsBody(settings))
}
