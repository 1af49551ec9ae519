package domain

import "time"

// ArticleStatus is a node in the review workflow state machine:
//
//	DRAFT -> IN_REVIEW -> {APPROVED, REJECTED}
//	APPROVED -> PUBLISHED
//
// REJECTED and PUBLISHED are terminal; an author edit while unpublished
// returns the article to DRAFT.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusInReview  ArticleStatus = "IN_REVIEW"
	StatusApproved  ArticleStatus = "APPROVED"
	StatusRejected  ArticleStatus = "REJECTED"
	StatusPublished ArticleStatus = "PUBLISHED"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

// Categories is the fixed set of newsletter sections an article can belong to.
var Categories = []string{
	"Attualità",
	"Sport",
	"Cultura",
	"Tecnologia",
	"Interviste",
	"Progetti",
}

// ValidCategory reports whether c is one of the configured categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type Article struct {
	ID         string
	Title      string
	Subtitle   string // optional
	Body       string
	AuthorID   string
	AuthorName string // denormalized display name at creation time
	Category   string
	Tags       []string
	Status     ArticleStatus
	CoverImage string // optional reference
	CreatedAt  time.Time
	UpdatedAt  time.Time
	// PublishedAt is set exactly when the article first enters PUBLISHED
	// and never changes afterwards.
	PublishedAt *time.Time
	Comments    []ReviewComment // ordered oldest first
}

// ReviewComment is an append-only child of an article. Author name and role
// are snapshots taken when the comment was written.
type ReviewComment struct {
	ID         string
	ArticleID  string
	AuthorID   string
	AuthorName string
	AuthorRole Role
	Body       string
	CreatedAt  time.Time
}
