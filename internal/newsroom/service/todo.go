package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoService struct {
	Store      store.Store
	Dispatcher *Dispatcher
}

// TodoInput carries the editable todo fields.
type TodoInput struct {
	Title       string
	Description string
	AssigneeID  string
	Priority    domain.TodoPriority
}

func (s *TodoService) validate(ctx context.Context, in *TodoInput) (assignee domain.User, err error) {
	verr := &ValidationError{}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		verr.add("title is required")
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		verr.add("unknown priority " + string(in.Priority))
	}
	if err := verr.orNil(); err != nil {
		return domain.User{}, err
	}

	if in.AssigneeID != "" {
		assignee, err = s.Store.Users().GetUserByID(ctx, in.AssigneeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.User{}, &ValidationError{Problems: []string{"assignee does not exist"}}
			}
			return domain.User{}, err
		}
	}
	return assignee, nil
}

// Create adds a todo item. Reviewers and admins only. Assigning to someone
// else notifies them.
func (s *TodoService) Create(ctx context.Context, actor Actor, in TodoInput) (domain.TodoItem, error) {
	if !actor.isStaff() {
		return domain.TodoItem{}, ErrPermissionDenied
	}

	assignee, err := s.validate(ctx, &in)
	if err != nil {
		return domain.TodoItem{}, err
	}

	creator, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return domain.TodoItem{}, err
	}

	t := domain.TodoItem{
		ID:          idx.New().String(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Priority:    in.Priority,
		CreatorID:   creator.ID,
		CreatorName: creator.DisplayName(),
		CreatedAt:   time.Now(),
	}
	if in.AssigneeID != "" {
		t.AssigneeID = assignee.ID
		t.AssigneeName = assignee.DisplayName()
	}

	if err := s.Store.Todos().CreateTodo(ctx, t); err != nil {
		return domain.TodoItem{}, err
	}

	if t.AssigneeID != "" && t.AssigneeID != actor.ID {
		s.notifyAssigned(ctx, creator, t)
	}
	return t, nil
}

// Update edits a todo. Reviewers and admins only. Assigning it to a new
// person notifies them.
func (s *TodoService) Update(ctx context.Context, actor Actor, todoID string, in TodoInput) (domain.TodoItem, error) {
	if !actor.isStaff() {
		return domain.TodoItem{}, ErrPermissionDenied
	}

	t, err := s.getTodo(ctx, todoID)
	if err != nil {
		return domain.TodoItem{}, err
	}

	assignee, err := s.validate(ctx, &in)
	if err != nil {
		return domain.TodoItem{}, err
	}

	previousAssignee := t.AssigneeID

	t.Title = in.Title
	t.Description = strings.TrimSpace(in.Description)
	t.Priority = in.Priority
	t.AssigneeID = ""
	t.AssigneeName = ""
	if in.AssigneeID != "" {
		t.AssigneeID = assignee.ID
		t.AssigneeName = assignee.DisplayName()
	}

	if err := s.Store.Todos().UpdateTodo(ctx, t); err != nil {
		return domain.TodoItem{}, err
	}

	if t.AssigneeID != "" && t.AssigneeID != previousAssignee && t.AssigneeID != actor.ID {
		updater, err := s.Store.Users().GetUserByID(ctx, actor.ID)
		if err != nil {
			return domain.TodoItem{}, err
		}
		s.notifyAssigned(ctx, updater, t)
	}
	return t, nil
}

// ToggleComplete flips a todo's completed state. Staff or the assignee only.
// Completing someone else's todo notifies its creator.
func (s *TodoService) ToggleComplete(ctx context.Context, actor Actor, todoID string) (domain.TodoItem, error) {
	t, err := s.getTodo(ctx, todoID)
	if err != nil {
		return domain.TodoItem{}, err
	}
	if !actor.isStaff() && t.AssigneeID != actor.ID {
		return domain.TodoItem{}, ErrPermissionDenied
	}

	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
	} else {
		now := time.Now()
		t.Completed = true
		t.CompletedAt = &now
	}

	if err := s.Store.Todos().UpdateTodo(ctx, t); err != nil {
		return domain.TodoItem{}, err
	}

	if t.Completed && t.CreatorID != actor.ID {
		completer, err := s.Store.Users().GetUserByID(ctx, actor.ID)
		if err != nil {
			return domain.TodoItem{}, err
		}
		ev := Event{
			UserID:  t.CreatorID,
			Type:    domain.NotifyTaskCompleted,
			Title:   "Task completed",
			Message: completer.DisplayName() + " completed \"" + t.Title + "\"",
			Payload: domain.NotificationPayload{
				TodoID:     t.ID,
				TodoTitle:  t.Title,
				SenderID:   completer.ID,
				SenderName: completer.DisplayName(),
				URL:        "/todos",
			},
		}
		if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
			slogx.FromContext(ctx).Error("failed to dispatch completion notification", "todo_id", t.ID, "err", err)
		}
	}
	return t, nil
}

// Delete removes a todo. Reviewers and admins only.
func (s *TodoService) Delete(ctx context.Context, actor Actor, todoID string) error {
	if !actor.isStaff() {
		return ErrPermissionDenied
	}
	if _, err := s.getTodo(ctx, todoID); err != nil {
		return err
	}
	return s.Store.Todos().DeleteTodo(ctx, todoID)
}

// List returns all todos, newest first.
func (s *TodoService) List(ctx context.Context) ([]domain.TodoItem, error) {
	return s.Store.Todos().ListTodos(ctx)
}

func (s *TodoService) getTodo(ctx context.Context, id string) (domain.TodoItem, error) {
	t, err := s.Store.Todos().GetTodoByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TodoItem{}, ErrTodoNotFound
		}
		return domain.TodoItem{}, err
	}
	return t, nil
}

func (s *TodoService) notifyAssigned(ctx context.Context, by domain.User, t domain.TodoItem) {
	ev := Event{
		UserID:  t.AssigneeID,
		Type:    domain.NotifyTaskAssigned,
		Title:   "Task assigned to you",
		Message: by.DisplayName() + " assigned you \"" + t.Title + "\"",
		Payload: domain.NotificationPayload{
			TodoID:     t.ID,
			TodoTitle:  t.Title,
			SenderID:   by.ID,
			SenderName: by.DisplayName(),
			URL:        "/todos",
		},
	}
	if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
		slogx.FromContext(ctx).Error("failed to dispatch assignment notification", "todo_id", t.ID, "err", err)
	}
}
