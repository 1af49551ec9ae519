package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type TodosHandler struct {
	TodoService *service.TodoService
}

type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assignee_id"`
	Priority    string `json:"priority"`
}

func (req TodoRequest) toInput() service.TodoInput {
	return service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    domain.TodoPriority(req.Priority),
	}
}

// HandleCreate adds a todo to the shared list.
//
//	@Summary		Create a todo
//	@Description	Adds a todo. Reviewers and admins only. The assignee, if any, is notified.
//	@Tags			Todos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TodoRequest	true	"New todo"
//	@Success		201		{object}	TodoResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/todos [post]
func (h *TodosHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.TodoService.Create(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTodoResponse(t))
}

// HandleList returns all todos.
//
//	@Summary	List todos
//	@Tags		Todos
//	@Produce	json
//	@Success	200	{array}	TodoResponse
//	@Security	BearerAuth
//	@Router		/v1/todos [get]
func (h *TodosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate edits a todo.
//
//	@Summary		Update a todo
//	@Description	Edits title, description, priority or assignee. Reviewers and admins only. A newly assigned user is notified.
//	@Tags			Todos
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Todo id"
//	@Param			request	body		TodoRequest	true	"New fields"
//	@Success		200		{object}	TodoResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/todos/{id} [put]
func (h *TodosHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.TodoService.Update(r.Context(), actorFrom(r), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTodoResponse(t))
}

// HandleToggle flips a todo's completion state.
//
//	@Summary		Toggle todo completion
//	@Description	Marks the todo done or reopens it. Staff and the assignee may toggle. Completing notifies the creator.
//	@Tags			Todos
//	@Produce		json
//	@Param			id	path		string	true	"Todo id"
//	@Success		200	{object}	TodoResponse
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/todos/{id}/toggle [post]
func (h *TodosHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.TodoService.ToggleComplete(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTodoResponse(t))
}

// HandleDelete removes a todo.
//
//	@Summary	Delete a todo
//	@Tags		Todos
//	@Produce	json
//	@Param		id	path	string	true	"Todo id"
//	@Success	204	"Deleted"
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/todos/{id} [delete]
func (h *TodosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.TodoService.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
