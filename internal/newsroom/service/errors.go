package service

import (
	"errors"
	"strings"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

var (
	// Login failures. The messages are deliberately specific; the product
	// tells users exactly which step failed.
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountDisabled   = errors.New("account disabled")
	ErrPasswordIncorrect = errors.New("password incorrect")

	// ErrNotAuthenticated covers missing, expired and revoked sessions.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPermissionDenied means the caller's role does not allow the
	// operation, or the resource belongs to someone else.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidTransition is returned for any article status change outside
	// the review state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrRegistrationDisabled = errors.New("registration is disabled")
)

// Actor is the authenticated caller performing a service operation. Handlers
// build it from the request context; tests build it directly.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) isStaff() bool {
	return a.Role == domain.RoleReviewer || a.Role == domain.RoleAdmin
}

// ValidationError collects per-field input failures so the client can show
// them all at once instead of one per round trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
