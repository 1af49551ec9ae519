package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, first_name, last_name, role, active, created_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&role, &u.Active, &u.CreatedAt, &lastLogin)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, first_name, last_name, role, active, created_at, last_login)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName,
		string(u.Role), u.Active, u.CreatedAt, mapOptionalTime(u.LastLogin))
	return mapUniqueViolation(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, role = ?, active = ?
		 WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, string(u.Role), u.Active, u.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) SetLastLogin(ctx context.Context, userID string, t time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, t, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// mapUniqueViolation translates sqlite unique-constraint failures into
// store.ErrAlreadyExists so the service layer can report duplicates without
// knowing the driver.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
