package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/cryptox"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin account on an empty store. The
// endpoint is guarded by a pre-configured token and stops working as soon as
// any user exists.
type BootstrapService struct {
	Store store.Store
	Token string
}

// IsBootstrapped reports whether any user exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first admin user. The provided token must match the
// configured bootstrap token.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, in CreateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Role = domain.RoleAdmin

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
		Role:      domain.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the transaction so two concurrent bootstrap calls
		// cannot both succeed.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Credentials().SetPasswordHash(ctx, u.ID, hash)
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("system bootstrapped", "admin_user_id", u.ID)
	return u, nil
}
