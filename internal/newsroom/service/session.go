package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/cryptox"
	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/matteiweekly/newsroom/pkg/idx"
	"github.com/matteiweekly/newsroom/pkg/jwtx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

type SessionService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	SessionTTL time.Duration
}

// LoginResult is the successful outcome of a Login call.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Login verifies the credentials and issues a session token. Each failure
// mode gets its own error so the UI can report which step failed.
func (s *SessionService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, err
	}
	if !u.Active {
		l.Info("login rejected for disabled account", "user_id", u.ID)
		return LoginResult{}, ErrAccountDisabled
	}

	hash, err := s.Store.Credentials().GetPasswordHash(ctx, u.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrPasswordIncorrect
		}
		return LoginResult{}, err
	}
	if err := cryptox.VerifyPassword(password, hash); err != nil {
		l.Info("login password verification failed", "user_id", u.ID)
		return LoginResult{}, ErrPasswordIncorrect
	}

	sessionID := idx.New().String()
	expiresAt := now.Add(s.SessionTTL)

	token, err := s.Signer.Sign(u.ID, sessionID, now, expiresAt)
	if err != nil {
		return LoginResult{}, err
	}

	session := domain.Session{
		ID:        sessionID,
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, session); err != nil {
			return err
		}
		return tx.Users().SetLastLogin(ctx, u.ID, now)
	})
	if err != nil {
		return LoginResult{}, err
	}

	u.LastLogin = &now
	l.Info("login successful", "user_id", u.ID, "session_id", sessionID)

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Logout deletes the session backing the given token. Unknown tokens are a
// no-op; logout never fails the client for a session that is already gone.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.Store.Sessions().DeleteSession(ctx, session.ID)
}

// Check validates a token end to end: signature and expiry, then the stored
// session row, then the user. A session whose user has been deleted or
// deactivated is torn down on sight.
func (s *SessionService) Check(ctx context.Context, token string) (domain.User, error) {
	if _, err := s.Signer.Verify(token); err != nil {
		return domain.User{}, ErrNotAuthenticated
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotAuthenticated
		}
		return domain.User{}, err
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.Store.Sessions().DeleteSession(ctx, session.ID)
		return domain.User{}, ErrNotAuthenticated
	}

	u, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil || !u.Active {
		_ = s.Store.Sessions().DeleteSession(ctx, session.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, ErrNotAuthenticated
	}

	return u, nil
}

// VerifyToken adapts Check to the httpx authn middleware.
func (s *SessionService) VerifyToken(ctx context.Context, token string) (httpx.Identity, error) {
	u, err := s.Check(ctx, token)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{UserID: u.ID, Role: string(u.Role)}, nil
}

// ChangePassword lets a user rotate their own password after proving they
// know the current one. All of the user's sessions are torn down; the caller
// must log in again.
func (s *SessionService) ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error {
	hash, err := s.Store.Credentials().GetPasswordHash(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := cryptox.VerifyPassword(oldPassword, hash); err != nil {
		return ErrPasswordIncorrect
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().SetPasswordHash(ctx, actor.ID, newHash); err != nil {
			return err
		}
		return tx.Sessions().DeleteSessionsForUser(ctx, actor.ID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", actor.ID)
	return nil
}

// ResetPassword sets another user's password without knowing the old one.
// Admin only. The target's sessions are torn down.
func (s *SessionService) ResetPassword(ctx context.Context, actor Actor, userID, newPassword string) error {
	if actor.Role != domain.RoleAdmin {
		return ErrPermissionDenied
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().SetPasswordHash(ctx, userID, newHash); err != nil {
			return err
		}
		return tx.Sessions().DeleteSessionsForUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", "user_id", userID, "by", actor.ID)
	return nil
}
