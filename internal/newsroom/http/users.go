package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func (req CreateUserRequest) toInput() service.CreateUserInput {
	return service.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
		Password:  req.Password,
	}
}

// HandleCreate adds a user. Admin only.
//
//	@Summary		Create a user
//	@Description	Creates a user with the given role. Usernames and emails are unique case-insensitively.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateUserRequest	true	"New user"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed"
//	@Failure		409		{object}	httpx.ErrorResponse	"Username or email taken"
//	@Security		BearerAuth
//	@Router			/v1/users [post]
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.UserService.Create(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleRegister is the self-service signup endpoint.
//
//	@Summary		Register
//	@Description	Self-service signup, available only when registration is enabled. The new account always gets the writer role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateUserRequest	true	"New account (role is ignored)"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	httpx.ErrorResponse	"Registration disabled"
//	@Failure		409		{object}	httpx.ErrorResponse	"Username or email taken"
//	@Router			/v1/register [post]
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.UserService.Register(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleList returns all users.
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Success	200	{array}	UserResponse
//	@Security	BearerAuth
//	@Router		/v1/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns one user.
//
//	@Summary	Get a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

type UpdateProfileRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleUpdate edits a user's profile fields.
//
//	@Summary		Update a profile
//	@Description	Users edit their own profile; admins may edit anyone's.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"User id"
//	@Param			request	body		UpdateProfileRequest	true	"New profile fields"
//	@Success		200		{object}	UserResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"Username or email taken"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [put]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.UserService.UpdateProfile(r.Context(), actorFrom(r), r.PathValue("id"), service.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// HandleChangeRole moves a user to a different role. Admin only.
//
//	@Summary	Change a user's role
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User id"
//	@Param		request	body		ChangeRoleRequest	true	"New role"
//	@Success	200		{object}	UserResponse
//	@Failure	403		{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/users/{id}/role [put]
func (h *UsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.UserService.ChangeRole(r.Context(), actorFrom(r), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive activates or deactivates an account. Admin only.
//
//	@Summary		Activate or deactivate a user
//	@Description	Deactivating revokes all of the user's sessions immediately.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		SetActiveRequest	true	"Active flag"
//	@Success		200		{object}	UserResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/active [put]
func (h *UsersHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.UserService.SetActive(r.Context(), actorFrom(r), r.PathValue("id"), req.Active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleDelete removes a user. Admin only.
//
//	@Summary		Delete a user
//	@Description	Removes the user, their credentials and sessions. Authored content keeps its name snapshots.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path	string	true	"User id"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
