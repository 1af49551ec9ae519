package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// Walks an article over HTTP through the whole review pipeline.
func TestArticleReviewFlow(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")
	adminToken := f.login("admin")

	var article ArticleResponse

	t.Run("writer drafts", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles", writerToken, ArticleRequest{
			Title:    "Il torneo di primavera",
			Body:     "Report dalla finale.",
			Category: "Sport",
			Tags:     []string{"sport", "torneo"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		decode(t, resp, &article)
		require.Equal(t, "DRAFT", article.Status)
		require.Equal(t, "walter Test", article.AuthorName)
	})

	t.Run("reviewer may not draft", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles", reviewerToken, ArticleRequest{
			Title: "Nope",
			Body:  "Nope",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("writer submits", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles/"+article.ID+"/submit", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		decode(t, resp, &article)
		require.Equal(t, "IN_REVIEW", article.Status)
	})

	t.Run("writer may not approve", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles/"+article.ID+"/approve", writerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("reviewer approves with a comment", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles/"+article.ID+"/approve", reviewerToken, ReviewRequest{
			Comment: "Ben scritto.",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		decode(t, resp, &article)
		require.Equal(t, "APPROVED", article.Status)
	})

	t.Run("reviewer may not publish", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles/"+article.ID+"/publish", reviewerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin publishes", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles/"+article.ID+"/publish", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		decode(t, resp, &article)
		require.Equal(t, "PUBLISHED", article.Status)
		require.NotNil(t, article.PublishedAt)
	})

	t.Run("status filter finds it", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/articles?status=PUBLISHED", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []ArticleResponse
		decode(t, resp, &list)
		require.Len(t, list, 1)
		require.Equal(t, article.ID, list[0].ID)
	})

	t.Run("the author was notified along the way", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/notifications", writerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []NotificationResponse
		decode(t, resp, &list)
		require.Len(t, list, 2)
		require.Equal(t, "article_published", list[0].Type)
		require.Equal(t, "article_approved", list[1].Type)
	})
}

func TestArticleValidationAndErrors(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")

	t.Run("empty draft is rejected", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles", writerToken, ArticleRequest{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown article is 404", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/articles/does-not-exist", writerToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("approving a draft is a conflict", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/articles", writerToken, ArticleRequest{
			Title: "Bozza",
			Body:  "Testo.",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var article ArticleResponse
		decode(t, resp, &article)

		resp = f.do(http.MethodPost, "/v1/articles/"+article.ID+"/approve", reviewerToken, nil)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("bad status filter is 400", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/v1/articles?status=SHOUTING", writerToken, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestArticleComments(t *testing.T) {
	f := newFixture(t)
	writerToken := f.login("walter")
	reviewerToken := f.login("rita")

	resp := f.do(http.MethodPost, "/v1/articles", writerToken, ArticleRequest{
		Title: "Con commenti",
		Body:  "Testo.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var article ArticleResponse
	decode(t, resp, &article)

	resp = f.do(http.MethodPost, "/v1/articles/"+article.ID+"/comments", reviewerToken, AddCommentRequest{
		Body: "Aggiungi una foto.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment CommentResponse
	decode(t, resp, &comment)
	require.Equal(t, "rita Test", comment.AuthorName)

	resp = f.do(http.MethodGet, "/v1/articles/"+article.ID, writerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &article)
	require.Len(t, article.Comments, 1)
	require.Equal(t, "Aggiungi una foto.", article.Comments[0].Body)
}
