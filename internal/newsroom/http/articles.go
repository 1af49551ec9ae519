package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type ArticlesHandler struct {
	ArticleService *service.ArticleService
}

type ArticleRequest struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Body       string   `json:"body"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"cover_image"`
}

func (req ArticleRequest) toInput() service.ArticleInput {
	return service.ArticleInput{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Body:       req.Body,
		Category:   req.Category,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
	}
}

// HandleCreate starts a new draft.
//
//	@Summary		Create an article
//	@Description	Creates a new DRAFT article authored by the caller. Writers and admins only.
//	@Tags			Articles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ArticleRequest	true	"Article content"
//	@Success		201		{object}	ArticleResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/articles [post]
func (h *ArticlesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.ArticleService.Create(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toArticleResponse(a))
}

// HandleList returns articles, optionally filtered by status or author.
//
//	@Summary		List articles
//	@Description	Returns all articles. Filter with ?status= or ?author= query parameters.
//	@Tags			Articles
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Param			author	query		string	false	"Filter by author id"
//	@Success		200		{array}		ArticleResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Unknown status"
//	@Security		BearerAuth
//	@Router			/v1/articles [get]
func (h *ArticlesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		articles []domain.Article
		err      error
	)
	switch {
	case r.URL.Query().Get("status") != "":
		articles, err = h.ArticleService.ListByStatus(r.Context(), domain.ArticleStatus(r.URL.Query().Get("status")))
	case r.URL.Query().Get("author") != "":
		articles, err = h.ArticleService.ListByAuthor(r.Context(), r.URL.Query().Get("author"))
	default:
		articles, err = h.ArticleService.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toArticleResponses(articles))
}

// HandleGet returns one article with its review comments.
//
//	@Summary	Get an article
//	@Tags		Articles
//	@Produce	json
//	@Param		id	path		string	true	"Article id"
//	@Success	200	{object}	ArticleResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/articles/{id} [get]
func (h *ArticlesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.ArticleService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// HandleUpdate edits an article's content.
//
//	@Summary		Update an article
//	@Description	Edits the article content. Only the author or an admin may edit, and only before publication. Editing an IN_REVIEW, APPROVED, or REJECTED article pulls it back to DRAFT.
//	@Tags			Articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Article id"
//	@Param			request	body		ArticleRequest	true	"New content"
//	@Success		200		{object}	ArticleResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"Article is not editable in its current status"
//	@Security		BearerAuth
//	@Router			/v1/articles/{id} [put]
func (h *ArticlesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.ArticleService.Update(r.Context(), actorFrom(r), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// HandleSubmit moves a draft into review.
//
//	@Summary	Submit an article for review
//	@Tags		Articles
//	@Produce	json
//	@Param		id	path		string	true	"Article id"
//	@Success	200	{object}	ArticleResponse
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Failure	409	{object}	httpx.ErrorResponse	"Not a draft"
//	@Security	BearerAuth
//	@Router		/v1/articles/{id}/submit [post]
func (h *ArticlesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	a, err := h.ArticleService.Submit(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

// HandleApprove approves an article in review.
//
//	@Summary		Approve an article
//	@Description	Approves an IN_REVIEW article, optionally attaching a review comment. Reviewers and admins only. The author is notified.
//	@Tags			Articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Article id"
//	@Param			request	body		ReviewRequest	false	"Optional comment"
//	@Success		200		{object}	ArticleResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"Not in review"
//	@Security		BearerAuth
//	@Router			/v1/articles/{id}/approve [post]
func (h *ArticlesHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	a, err := h.ArticleService.Approve(r.Context(), actorFrom(r), r.PathValue("id"), req.Comment)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// HandleReject sends an article back to its author.
//
//	@Summary		Reject an article
//	@Description	Rejects an IN_REVIEW article, optionally attaching the reason as a review comment. Reviewers and admins only. The author is notified.
//	@Tags			Articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Article id"
//	@Param			request	body		ReviewRequest	false	"Optional reason"
//	@Success		200		{object}	ArticleResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"Not in review"
//	@Security		BearerAuth
//	@Router			/v1/articles/{id}/reject [post]
func (h *ArticlesHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	a, err := h.ArticleService.Reject(r.Context(), actorFrom(r), r.PathValue("id"), req.Comment)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// HandlePublish publishes an approved article.
//
//	@Summary		Publish an article
//	@Description	Publishes an APPROVED article. Admin only. Publishing an already published article is a no-op.
//	@Tags			Articles
//	@Produce		json
//	@Param			id	path		string	true	"Article id"
//	@Success		200	{object}	ArticleResponse
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		409	{object}	httpx.ErrorResponse	"Not approved"
//	@Security		BearerAuth
//	@Router			/v1/articles/{id}/publish [post]
func (h *ArticlesHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	a, err := h.ArticleService.Publish(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

type AddCommentRequest struct {
	Body string `json:"body"`
}

// HandleAddComment attaches a review comment to an article.
//
//	@Summary		Comment on an article
//	@Description	Adds a review comment. The article author is notified unless they wrote the comment themselves.
//	@Tags			Articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Article id"
//	@Param			request	body		AddCommentRequest	true	"Comment body"
//	@Success		201		{object}	CommentResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/articles/{id}/comments [post]
func (h *ArticlesHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.ArticleService.AddComment(r.Context(), actorFrom(r), r.PathValue("id"), req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// HandleDelete removes an article.
//
//	@Summary		Delete an article
//	@Description	Admins may delete any article. Authors may delete their own drafts.
//	@Tags			Articles
//	@Produce		json
//	@Param			id	path	string	true	"Article id"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/articles/{id} [delete]
func (h *ArticlesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ArticleService.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
