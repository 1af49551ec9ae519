package domain

import "time"

// Role is the editorial role assigned to a user. It gates who may review,
// publish, and administer content.
type Role string

const (
	RoleWriter   Role = "writer"   // drafts and submits articles
	RoleReviewer Role = "reviewer" // approves/rejects submitted articles, manages todos
	RoleAdmin    Role = "admin"    // everything, including publish and user management
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWriter, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string
	Username  string // unique, matched case-insensitively
	Email     string // unique, matched case-insensitively
	FirstName string
	LastName  string
	Role      Role
	Active    bool
	CreatedAt time.Time
	LastLogin *time.Time // nil until first successful login
}

// DisplayName is the denormalized name stamped onto articles, comments,
// chat messages and notifications.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
