package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/cryptox"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

var ErrUsernameTaken = errors.New("username or email already in use")

type UserService struct {
	Store store.Store

	// RegistrationEnabled gates the self-service Register path. Admin
	// creation is always available.
	RegistrationEnabled bool
}

// CreateUserInput carries the fields for creating or registering a user.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Password  string
}

// Create adds a user with an arbitrary role. Admin only.
func (s *UserService) Create(ctx context.Context, actor Actor, in CreateUserInput) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}
	return s.create(ctx, in)
}

// Register is the self-service signup path. The role is forced to writer
// regardless of input.
func (s *UserService) Register(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if !s.RegistrationEnabled {
		return domain.User{}, ErrRegistrationDisabled
	}
	in.Role = domain.RoleWriter
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := validateProfile(in.Username, in.Email, in.FirstName, in.LastName, in.Role); err != nil {
		return domain.User{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:        idx.New().String(),
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		Active:    true,
		CreatedAt: time.Now(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Credentials().SetPasswordHash(ctx, u.ID, hash)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	l.Info("user created", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

// UpdateProfileInput carries the mutable profile fields. Role and active
// state change through dedicated operations.
type UpdateProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// UpdateProfile edits a user's own profile, or any profile when the actor is
// an admin.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, userID string, in UpdateProfileInput) (domain.User, error) {
	if actor.ID != userID && actor.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	u.Username = strings.TrimSpace(in.Username)
	u.Email = strings.TrimSpace(in.Email)
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)

	if err := validateProfile(u.Username, u.Email, u.FirstName, u.LastName, u.Role); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}
	return u, nil
}

// ChangeRole moves a user to a different role. Admin only.
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, userID string, role domain.Role) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}
	if !role.Valid() {
		return domain.User{}, &ValidationError{Problems: []string{"unknown role " + string(role)}}
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	u.Role = role
	if err := s.Store.Users().UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// SetActive flips a user's active flag. Admin only. Deactivating tears down
// the user's sessions so existing tokens stop working immediately.
func (s *UserService) SetActive(ctx context.Context, actor Actor, userID string, active bool) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}

	var u domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		u, err = tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		u.Active = active
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		if !active {
			return tx.Sessions().DeleteSessionsForUser(ctx, userID)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user active flag changed", "user_id", userID, "active", active)
	return u, nil
}

// Delete removes a user, their credentials and their sessions. Admin only.
// Authored content keeps its denormalized author name.
func (s *UserService) Delete(ctx context.Context, actor Actor, userID string) error {
	if actor.Role != domain.RoleAdmin {
		return ErrPermissionDenied
	}
	if actor.ID == userID {
		return &ValidationError{Problems: []string{"cannot delete your own account"}}
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSessionsForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Credentials().DeletePasswordHash(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := tx.Users().DeleteUser(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByUsername fetches a user by username, case-insensitively.
func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by email, case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func validateProfile(username, email, firstName, lastName string, role domain.Role) error {
	verr := &ValidationError{}
	if username == "" {
		verr.add("username is required")
	}
	if strings.ContainsAny(username, " \t") {
		verr.add("username must not contain spaces")
	}
	if email == "" {
		verr.add("email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.add("email is not a valid address")
	}
	if firstName == "" {
		verr.add("first name is required")
	}
	if lastName == "" {
		verr.add("last name is required")
	}
	if !role.Valid() {
		verr.add("unknown role " + string(role))
	}
	return verr.orNil()
}

// ValidatePassword enforces the password policy: at least 6 characters with
// one lowercase letter, one uppercase letter and one digit. All failures are
// reported together.
func ValidatePassword(password string) error {
	verr := &ValidationError{}
	if len(password) < 6 {
		verr.add("password must be at least 6 characters")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		verr.add("password must contain a lowercase letter")
	}
	if !hasUpper {
		verr.add("password must contain an uppercase letter")
	}
	if !hasDigit {
		verr.add("password must contain a digit")
	}
	return verr.orNil()
}
