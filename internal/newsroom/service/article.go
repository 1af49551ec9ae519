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

var ErrArticleNotFound = errors.New("article not found")

// allowedTransitions is the review state machine for the explicit workflow
// verbs. Anything not listed here is rejected with ErrInvalidTransition.
// Update has its own rule: any unpublished article may be edited, and the
// edit pulls it back to DRAFT.
var allowedTransitions = map[domain.ArticleStatus][]domain.ArticleStatus{
	domain.StatusDraft:    {domain.StatusInReview},
	domain.StatusInReview: {domain.StatusApproved, domain.StatusRejected, domain.StatusDraft},
	domain.StatusApproved: {domain.StatusPublished},
}

func canTransition(from, to domain.ArticleStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ArticleService struct {
	Store      store.Store
	Dispatcher *Dispatcher
}

// ArticleInput carries the author-editable fields.
type ArticleInput struct {
	Title      string
	Subtitle   string
	Body       string
	Category   string
	Tags       []string
	CoverImage string
}

func validateArticleInput(in ArticleInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.add("title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		verr.add("body is required")
	}
	if in.Category != "" && !domain.ValidCategory(in.Category) {
		verr.add("unknown category " + in.Category)
	}
	return verr.orNil()
}

// Create stores a new DRAFT article authored by the actor. Writers and
// admins only.
func (s *ArticleService) Create(ctx context.Context, actor Actor, in ArticleInput) (domain.Article, error) {
	if actor.Role != domain.RoleWriter && actor.Role != domain.RoleAdmin {
		return domain.Article{}, ErrPermissionDenied
	}
	if err := validateArticleInput(in); err != nil {
		return domain.Article{}, err
	}

	author, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return domain.Article{}, err
	}

	now := time.Now()
	a := domain.Article{
		ID:         idx.New().String(),
		Title:      strings.TrimSpace(in.Title),
		Subtitle:   strings.TrimSpace(in.Subtitle),
		Body:       in.Body,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName(),
		Category:   in.Category,
		Tags:       in.Tags,
		Status:     domain.StatusDraft,
		CoverImage: in.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Articles().CreateArticle(ctx, a); err != nil {
		return domain.Article{}, err
	}

	slogx.FromContext(ctx).Info("article created", "article_id", a.ID, "author_id", author.ID)
	return a, nil
}

// Update edits an article's content. Only the author or an admin may edit,
// and only before publication; editing an IN_REVIEW, APPROVED, or REJECTED
// article pulls it back to DRAFT for a fresh submission.
func (s *ArticleService) Update(ctx context.Context, actor Actor, articleID string, in ArticleInput) (domain.Article, error) {
	if err := validateArticleInput(in); err != nil {
		return domain.Article{}, err
	}

	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	if a.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return domain.Article{}, ErrPermissionDenied
	}
	if a.Status == domain.StatusPublished {
		return domain.Article{}, ErrInvalidTransition
	}

	a.Title = strings.TrimSpace(in.Title)
	a.Subtitle = strings.TrimSpace(in.Subtitle)
	a.Body = in.Body
	a.Category = in.Category
	a.Tags = in.Tags
	a.CoverImage = in.CoverImage
	a.Status = domain.StatusDraft
	a.UpdatedAt = time.Now()

	if err := s.Store.Articles().UpdateArticle(ctx, a); err != nil {
		return domain.Article{}, err
	}
	return a, nil
}

// Submit moves the author's DRAFT into review.
func (s *ArticleService) Submit(ctx context.Context, actor Actor, articleID string) (domain.Article, error) {
	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	if a.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return domain.Article{}, ErrPermissionDenied
	}
	if !canTransition(a.Status, domain.StatusInReview) {
		return domain.Article{}, ErrInvalidTransition
	}

	a.Status = domain.StatusInReview
	a.UpdatedAt = time.Now()
	if err := s.Store.Articles().UpdateArticle(ctx, a); err != nil {
		return domain.Article{}, err
	}

	slogx.FromContext(ctx).Info("article submitted for review", "article_id", a.ID)
	return a, nil
}

// Approve moves an IN_REVIEW article to APPROVED. Reviewers and admins only.
// An optional comment is appended, and the author is notified unless they
// approved their own piece.
func (s *ArticleService) Approve(ctx context.Context, actor Actor, articleID, comment string) (domain.Article, error) {
	return s.review(ctx, actor, articleID, domain.StatusApproved, comment)
}

// Reject moves an IN_REVIEW article to REJECTED, with the same comment and
// notification behavior as Approve.
func (s *ArticleService) Reject(ctx context.Context, actor Actor, articleID, comment string) (domain.Article, error) {
	return s.review(ctx, actor, articleID, domain.StatusRejected, comment)
}

func (s *ArticleService) review(ctx context.Context, actor Actor, articleID string, verdict domain.ArticleStatus, comment string) (domain.Article, error) {
	if !actor.isStaff() {
		return domain.Article{}, ErrPermissionDenied
	}

	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	if !canTransition(a.Status, verdict) {
		return domain.Article{}, ErrInvalidTransition
	}

	reviewer, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return domain.Article{}, err
	}

	now := time.Now()
	a.Status = verdict
	a.UpdatedAt = now

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Articles().UpdateArticle(ctx, a); err != nil {
			return err
		}
		if strings.TrimSpace(comment) != "" {
			c := domain.ReviewComment{
				ID:         idx.New().String(),
				ArticleID:  a.ID,
				AuthorID:   reviewer.ID,
				AuthorName: reviewer.DisplayName(),
				AuthorRole: reviewer.Role,
				Body:       strings.TrimSpace(comment),
				CreatedAt:  now,
			}
			if err := tx.Articles().AddComment(ctx, c); err != nil {
				return err
			}
			a.Comments = append(a.Comments, c)
		}
		return nil
	})
	if err != nil {
		return domain.Article{}, err
	}

	if a.AuthorID != actor.ID {
		ev := Event{
			UserID: a.AuthorID,
			Payload: domain.NotificationPayload{
				ArticleID:    a.ID,
				ArticleTitle: a.Title,
				SenderID:     reviewer.ID,
				SenderName:   reviewer.DisplayName(),
				URL:          "/articles/" + a.ID,
			},
		}
		if verdict == domain.StatusApproved {
			ev.Type = domain.NotifyArticleApproved
			ev.Title = "Article approved"
			ev.Message = reviewer.DisplayName() + " approved \"" + a.Title + "\""
		} else {
			ev.Type = domain.NotifyArticleRejected
			ev.Title = "Article rejected"
			ev.Message = reviewer.DisplayName() + " rejected \"" + a.Title + "\""
			if strings.TrimSpace(comment) != "" {
				ev.Message += ": " + strings.TrimSpace(comment)
			}
		}
		if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
			slogx.FromContext(ctx).Error("failed to dispatch review notification", "article_id", a.ID, "err", err)
		}
	}

	return a, nil
}

// Publish moves an APPROVED article to PUBLISHED. Admin only. PublishedAt is
// set exactly once; publishing an already-published article is a no-op.
func (s *ArticleService) Publish(ctx context.Context, actor Actor, articleID string) (domain.Article, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.Article{}, ErrPermissionDenied
	}

	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	if a.Status == domain.StatusPublished {
		return a, nil
	}
	if !canTransition(a.Status, domain.StatusPublished) {
		return domain.Article{}, ErrInvalidTransition
	}

	now := time.Now()
	a.Status = domain.StatusPublished
	a.UpdatedAt = now
	a.PublishedAt = &now

	if err := s.Store.Articles().UpdateArticle(ctx, a); err != nil {
		return domain.Article{}, err
	}

	if a.AuthorID != actor.ID {
		publisher, err := s.Store.Users().GetUserByID(ctx, actor.ID)
		if err != nil {
			return domain.Article{}, err
		}
		ev := Event{
			UserID:  a.AuthorID,
			Type:    domain.NotifyArticlePublished,
			Title:   "Article published",
			Message: "\"" + a.Title + "\" is now published",
			Payload: domain.NotificationPayload{
				ArticleID:    a.ID,
				ArticleTitle: a.Title,
				SenderID:     publisher.ID,
				SenderName:   publisher.DisplayName(),
				URL:          "/articles/" + a.ID,
			},
		}
		if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
			slogx.FromContext(ctx).Error("failed to dispatch publish notification", "article_id", a.ID, "err", err)
		}
	}

	slogx.FromContext(ctx).Info("article published", "article_id", a.ID)
	return a, nil
}

// AddComment appends a review comment outside of an approve/reject verdict.
// Any authenticated user may comment; the author is notified when someone
// else comments.
func (s *ArticleService) AddComment(ctx context.Context, actor Actor, articleID, body string) (domain.ReviewComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ReviewComment{}, &ValidationError{Problems: []string{"comment body is required"}}
	}

	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	commenter, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	c := domain.ReviewComment{
		ID:         idx.New().String(),
		ArticleID:  a.ID,
		AuthorID:   commenter.ID,
		AuthorName: commenter.DisplayName(),
		AuthorRole: commenter.Role,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.Store.Articles().AddComment(ctx, c); err != nil {
		return domain.ReviewComment{}, err
	}

	if a.AuthorID != actor.ID {
		preview := truncatePreview(body)
		ev := Event{
			UserID:  a.AuthorID,
			Type:    domain.NotifyArticleComment,
			Title:   "New comment on \"" + a.Title + "\"",
			Message: commenter.DisplayName() + ": " + preview,
			Payload: domain.NotificationPayload{
				ArticleID:      a.ID,
				ArticleTitle:   a.Title,
				CommentID:      c.ID,
				CommentPreview: preview,
				SenderID:       commenter.ID,
				SenderName:     commenter.DisplayName(),
				URL:            "/articles/" + a.ID,
			},
		}
		if _, _, err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
			slogx.FromContext(ctx).Error("failed to dispatch comment notification", "article_id", a.ID, "err", err)
		}
	}

	return c, nil
}

// Delete removes an article. Authors may delete their own drafts; admins may
// delete anything.
func (s *ArticleService) Delete(ctx context.Context, actor Actor, articleID string) error {
	a, err := s.getArticle(ctx, articleID)
	if err != nil {
		return err
	}

	switch {
	case actor.Role == domain.RoleAdmin:
	case a.AuthorID == actor.ID && a.Status == domain.StatusDraft:
	default:
		return ErrPermissionDenied
	}

	return s.Store.Articles().DeleteArticle(ctx, articleID)
}

// Get fetches one article with its comments.
func (s *ArticleService) Get(ctx context.Context, articleID string) (domain.Article, error) {
	return s.getArticle(ctx, articleID)
}

// List returns every article, newest first.
func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.Store.Articles().ListArticles(ctx)
}

// ListByAuthor returns one author's articles.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error) {
	return s.Store.Articles().ListArticlesByAuthor(ctx, authorID)
}

// ListByStatus filters articles by workflow status.
func (s *ArticleService) ListByStatus(ctx context.Context, status domain.ArticleStatus) ([]domain.Article, error) {
	if !status.Valid() {
		return nil, &ValidationError{Problems: []string{"unknown status " + string(status)}}
	}
	return s.Store.Articles().ListArticlesByStatus(ctx, status)
}

func (s *ArticleService) getArticle(ctx context.Context, id string) (domain.Article, error) {
	a, err := s.Store.Articles().GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Article{}, ErrArticleNotFound
		}
		return domain.Article{}, err
	}
	return a, nil
}
