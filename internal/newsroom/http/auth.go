package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

type AuthHandler struct {
	SessionService *service.SessionService
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// HandleLogin authenticates a user and issues a session token.
//
//	@Summary		Log in
//	@Description	Verifies username and password and returns a bearer token valid for 24 hours.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest			true	"Credentials"
//	@Success		200		{object}	LoginResponse			"Session token and user profile"
//	@Failure		400		{object}	httpx.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse		"Unknown user, disabled account or wrong password"
//	@Router			/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.SessionService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrAccountDisabled),
			errors.Is(err, service.ErrPasswordIncorrect):
			// The product reports exactly which step failed.
			httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

// HandleLogout revokes the caller's session.
//
//	@Summary		Log out
//	@Description	Deletes the session backing the presented token. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Success		204	"Session revoked"
//	@Security		BearerAuth
//	@Router			/v1/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.SessionService.Logout(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession returns the user behind the presented token.
//
//	@Summary		Check session
//	@Description	Validates the presented token and returns the authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	UserResponse		"Authenticated user"
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, invalid or revoked token"
//	@Security		BearerAuth
//	@Router			/v1/auth/session [get]
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := h.SessionService.Check(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// HandleChangePassword rotates the caller's own password.
//
//	@Summary		Change password
//	@Description	Verifies the old password, applies the policy to the new one and revokes all of the caller's sessions.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	ChangePasswordRequest	true	"Old and new password"
//	@Success		204		"Password changed; log in again"
//	@Failure		400		{object}	httpx.ErrorResponse	"Policy violation"
//	@Failure		401		{object}	httpx.ErrorResponse	"Old password incorrect"
//	@Security		BearerAuth
//	@Router			/v1/auth/password [put]
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.SessionService.ChangePassword(r.Context(), actorFrom(r), req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrPasswordIncorrect) {
			httpx.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("password changed via api")
	w.WriteHeader(http.StatusNoContent)
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// HandleResetPassword sets another user's password. Admin only.
//
//	@Summary		Reset a user's password
//	@Description	Sets a new password for the given user without the old one and revokes their sessions. Admin only.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"User id"
//	@Param			request	body	ResetPasswordRequest	true	"New password"
//	@Success		204		"Password reset"
//	@Failure		400		{object}	httpx.ErrorResponse	"Policy violation"
//	@Failure		403		{object}	httpx.ErrorResponse	"Not an admin"
//	@Failure		404		{object}	httpx.ErrorResponse	"Unknown user"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/password [put]
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.SessionService.ResetPassword(r.Context(), actorFrom(r), r.PathValue("id"), req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}
