package http

import (
	"errors"
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin account.
//
//	@Summary		Bootstrap the workspace
//	@Description	Creates the first admin account. Only available while no users exist and a bootstrap token is configured. The token travels in the X-Bootstrap-Token header.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string				true	"Bootstrap token"
//	@Param			request				body		CreateUserRequest	true	"First admin account (role is ignored)"
//	@Success		201					{object}	UserResponse
//	@Failure		400					{object}	httpx.ErrorResponse	"Validation failed"
//	@Failure		401					{object}	httpx.ErrorResponse	"Missing or wrong token"
//	@Failure		404					{object}	httpx.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	httpx.ErrorResponse	"Already bootstrapped"
//	@Router			/v1/bootstrap [post]
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, "bootstrap is not enabled")
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.BootstrapService.Bootstrap(r.Context(), token, req.toInput())
	switch {
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, service.ErrBootstrapAlready):
		httpx.WriteError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("workspace bootstrapped", "admin_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}
