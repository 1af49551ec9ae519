package sqlite

import (
	"context"
	"database/sql"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

type todosRepo struct {
	db dbtx
}

const todoColumns = `id, title, description, assignee_id, assignee_name, priority, completed, completed_at, creator_id, creator_name, created_at`

func scanTodo(row interface{ Scan(...any) error }) (domain.TodoItem, error) {
	var (
		t            domain.TodoItem
		description  sql.NullString
		assigneeID   sql.NullString
		assigneeName sql.NullString
		priority     string
		completedAt  sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &description, &assigneeID, &assigneeName,
		&priority, &t.Completed, &completedAt, &t.CreatorID, &t.CreatorName, &t.CreatedAt)
	if err != nil {
		return domain.TodoItem{}, err
	}
	t.Description = mapNullString(description)
	t.AssigneeID = mapNullString(assigneeID)
	t.AssigneeName = mapNullString(assigneeName)
	t.Priority = domain.TodoPriority(priority)
	t.CompletedAt = mapNullTimePtr(completedAt)
	return t, nil
}

func (r *todosRepo) CreateTodo(ctx context.Context, t domain.TodoItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, assignee_id, assignee_name, priority, completed, completed_at, creator_id, creator_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, mapStringNull(t.Description), mapStringNull(t.AssigneeID),
		mapStringNull(t.AssigneeName), string(t.Priority), t.Completed,
		mapOptionalTime(t.CompletedAt), t.CreatorID, t.CreatorName, t.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *todosRepo) GetTodoByID(ctx context.Context, id string) (domain.TodoItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err != nil {
		return domain.TodoItem{}, mapNotFound(err)
	}
	return t, nil
}

func (r *todosRepo) UpdateTodo(ctx context.Context, t domain.TodoItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, assignee_id = ?, assignee_name = ?, priority = ?, completed = ?, completed_at = ?
		 WHERE id = ?`,
		t.Title, mapStringNull(t.Description), mapStringNull(t.AssigneeID),
		mapStringNull(t.AssigneeName), string(t.Priority), t.Completed,
		mapOptionalTime(t.CompletedAt), t.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *todosRepo) DeleteTodo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *todosRepo) ListTodos(ctx context.Context) ([]domain.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.TodoItem
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}
