package sqlite

import (
	"context"
	"database/sql"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
)

type articlesRepo struct {
	db dbtx
}

const articleColumns = `id, title, subtitle, body, author_id, author_name, category, tags, status, cover_image, created_at, updated_at, published_at`

func scanArticle(row interface{ Scan(...any) error }) (domain.Article, error) {
	var (
		a           domain.Article
		subtitle    sql.NullString
		tags        string
		status      string
		coverImage  sql.NullString
		publishedAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Title, &subtitle, &a.Body, &a.AuthorID, &a.AuthorName,
		&a.Category, &tags, &status, &coverImage, &a.CreatedAt, &a.UpdatedAt, &publishedAt)
	if err != nil {
		return domain.Article{}, err
	}
	a.Subtitle = mapNullString(subtitle)
	a.Tags = decodeTags(tags)
	a.Status = domain.ArticleStatus(status)
	a.CoverImage = mapNullString(coverImage)
	a.PublishedAt = mapNullTimePtr(publishedAt)
	return a, nil
}

func (r *articlesRepo) GetArticleByID(ctx context.Context, id string) (domain.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err != nil {
		return domain.Article{}, mapNotFound(err)
	}

	comments, err := r.listComments(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}
	a.Comments = comments
	return a, nil
}

func (r *articlesRepo) CreateArticle(ctx context.Context, a domain.Article) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, subtitle, body, author_id, author_name, category, tags, status, cover_image, created_at, updated_at, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, mapStringNull(a.Subtitle), a.Body, a.AuthorID, a.AuthorName,
		a.Category, encodeTags(a.Tags), string(a.Status), mapStringNull(a.CoverImage),
		a.CreatedAt, a.UpdatedAt, mapOptionalTime(a.PublishedAt))
	return mapUniqueViolation(err)
}

func (r *articlesRepo) UpdateArticle(ctx context.Context, a domain.Article) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE articles
		 SET title = ?, subtitle = ?, body = ?, category = ?, tags = ?, status = ?, cover_image = ?, updated_at = ?, published_at = ?
		 WHERE id = ?`,
		a.Title, mapStringNull(a.Subtitle), a.Body, a.Category, encodeTags(a.Tags),
		string(a.Status), mapStringNull(a.CoverImage), a.UpdatedAt,
		mapOptionalTime(a.PublishedAt), a.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *articlesRepo) DeleteArticle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *articlesRepo) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return r.list(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC, id DESC`)
}

func (r *articlesRepo) ListArticlesByAuthor(ctx context.Context, authorID string) ([]domain.Article, error) {
	return r.list(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE author_id = ? ORDER BY created_at DESC, id DESC`,
		authorID)
}

func (r *articlesRepo) ListArticlesByStatus(ctx context.Context, status domain.ArticleStatus) ([]domain.Article, error) {
	return r.list(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE status = ? ORDER BY created_at DESC, id DESC`,
		string(status))
}

func (r *articlesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach comments per article. Listing is a low-volume admin/dashboard
	// operation, so N+1 is acceptable here.
	for i := range articles {
		comments, err := r.listComments(ctx, articles[i].ID)
		if err != nil {
			return nil, err
		}
		articles[i].Comments = comments
	}
	return articles, nil
}

func (r *articlesRepo) AddComment(ctx context.Context, c domain.ReviewComment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_comments (id, article_id, author_id, author_name, author_role, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ArticleID, c.AuthorID, c.AuthorName, string(c.AuthorRole), c.Body, c.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *articlesRepo) listComments(ctx context.Context, articleID string) ([]domain.ReviewComment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, article_id, author_id, author_name, author_role, body, created_at
		 FROM review_comments WHERE article_id = ? ORDER BY created_at, id`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.ReviewComment
	for rows.Next() {
		var (
			c    domain.ReviewComment
			role string
		)
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.AuthorName, &role, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.AuthorRole = domain.Role(role)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
