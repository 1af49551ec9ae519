package domain

import "time"

// ChatMessage is an entry in the team chat log. Author name and role are
// snapshots; deleting a user does not rewrite history.
type ChatMessage struct {
	ID         string
	AuthorID   string
	AuthorName string
	AuthorRole Role
	Body       string
	CreatedAt  time.Time
}
