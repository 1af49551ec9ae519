package service

import (
	"context"
	"testing"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/stretchr/testify/require"
)

func newArticleService(t *testing.T) (*ArticleService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return &ArticleService{
		Store:      st,
		Dispatcher: &Dispatcher{Store: st},
	}, st
}

func draftArticle(t *testing.T, svc *ArticleService, author domain.User) domain.Article {
	t.Helper()
	a, err := svc.Create(context.Background(), asActor(author), ArticleInput{
		Title:    "Il torneo di primavera",
		Body:     "Cronaca della finale.",
		Category: "Sport",
		Tags:     []string{"torneo", "finale"},
	})
	require.NoError(t, err)
	return a
}

func TestArticleCreate(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	reviewer := seedUser(t, st, "reviewer", domain.RoleReviewer)

	t.Run("reviewers cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(reviewer), ArticleInput{Title: "x", Body: "y"})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("title and body are required", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(writer), ArticleInput{Title: "  ", Body: ""})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Problems, 2)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(writer), ArticleInput{Title: "t", Body: "b", Category: "Gossip"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("starts as draft with snapshot author name", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		require.Equal(t, domain.StatusDraft, a.Status)
		require.Equal(t, writer.DisplayName(), a.AuthorName)
		require.Nil(t, a.PublishedAt)
	})
}

func TestArticleWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	reviewer := seedUser(t, st, "reviewer", domain.RoleReviewer)
	admin := seedUser(t, st, "root", domain.RoleAdmin)

	t.Run("happy path draft to published", func(t *testing.T) {
		a := draftArticle(t, svc, writer)

		a, err := svc.Submit(ctx, asActor(writer), a.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusInReview, a.Status)

		a, err = svc.Approve(ctx, asActor(reviewer), a.ID, "ben fatto")
		require.NoError(t, err)
		require.Equal(t, domain.StatusApproved, a.Status)
		require.Len(t, a.Comments, 1)
		require.Equal(t, domain.RoleReviewer, a.Comments[0].AuthorRole)

		a, err = svc.Publish(ctx, asActor(admin), a.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPublished, a.Status)
		require.NotNil(t, a.PublishedAt)

		// Author got one approval and one publish notification.
		notifications, err := st.Notifications().ListNotificationsForUser(ctx, writer.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 2)
		require.Equal(t, domain.NotifyArticlePublished, notifications[0].Type)
		require.Equal(t, domain.NotifyArticleApproved, notifications[1].Type)
		require.Equal(t, domain.NotifyHigh, notifications[1].Priority)
	})

	t.Run("republish is a no-op", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)
		a, _ = svc.Approve(ctx, asActor(reviewer), a.ID, "")
		a, err := svc.Publish(ctx, asActor(admin), a.ID)
		require.NoError(t, err)
		firstPublished := *a.PublishedAt

		again, err := svc.Publish(ctx, asActor(admin), a.ID)
		require.NoError(t, err)
		require.True(t, firstPublished.Equal(*again.PublishedAt))
	})

	t.Run("rejected with reason notifies the author", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)

		a, err := svc.Reject(ctx, asActor(reviewer), a.ID, "troppo corto")
		require.NoError(t, err)
		require.Equal(t, domain.StatusRejected, a.Status)

		notifications, err := st.Notifications().ListNotificationsForUser(ctx, writer.ID)
		require.NoError(t, err)
		require.Equal(t, domain.NotifyArticleRejected, notifications[0].Type)
		require.Contains(t, notifications[0].Message, "troppo corto")
	})

	t.Run("self transitions dispatch nothing", func(t *testing.T) {
		before, err := st.Notifications().CountNotificationsForUser(ctx, admin.ID)
		require.NoError(t, err)

		a := draftArticle(t, svc, admin)
		a, _ = svc.Submit(ctx, asActor(admin), a.ID)
		a, err = svc.Approve(ctx, asActor(admin), a.ID, "")
		require.NoError(t, err)
		_, err = svc.Publish(ctx, asActor(admin), a.ID)
		require.NoError(t, err)

		after, err := st.Notifications().CountNotificationsForUser(ctx, admin.ID)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("invalid transitions rejected", func(t *testing.T) {
		a := draftArticle(t, svc, writer)

		// Cannot approve or publish a draft.
		_, err := svc.Approve(ctx, asActor(reviewer), a.ID, "")
		require.ErrorIs(t, err, ErrInvalidTransition)
		_, err = svc.Publish(ctx, asActor(admin), a.ID)
		require.ErrorIs(t, err, ErrInvalidTransition)

		// Cannot submit twice.
		a, err = svc.Submit(ctx, asActor(writer), a.ID)
		require.NoError(t, err)
		_, err = svc.Submit(ctx, asActor(writer), a.ID)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("writers cannot review", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)

		_, err := svc.Approve(ctx, asActor(writer), a.ID, "")
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("publish is admin only", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)
		a, _ = svc.Approve(ctx, asActor(reviewer), a.ID, "")

		_, err := svc.Publish(ctx, asActor(reviewer), a.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestArticleUpdate(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	other := seedUser(t, st, "other", domain.RoleWriter)
	reviewer := seedUser(t, st, "reviewer", domain.RoleReviewer)
	admin := seedUser(t, st, "root", domain.RoleAdmin)

	edit := ArticleInput{Title: "Nuovo titolo", Body: "Nuovo testo.", Category: "Cultura"}

	t.Run("only the author or an admin", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		_, err := svc.Update(ctx, asActor(other), a.ID, edit)
		require.ErrorIs(t, err, ErrPermissionDenied)

		_, err = svc.Update(ctx, asActor(admin), a.ID, edit)
		require.NoError(t, err)
	})

	t.Run("editing in review pulls back to draft", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)

		a, err := svc.Update(ctx, asActor(writer), a.ID, edit)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, a.Status)
		require.Equal(t, "Nuovo titolo", a.Title)
	})

	t.Run("rejected articles can be revised and resubmitted", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)
		a, err := svc.Reject(ctx, asActor(reviewer), a.ID, "troppo corto")
		require.NoError(t, err)

		a, err = svc.Update(ctx, asActor(writer), a.ID, edit)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, a.Status)

		a, err = svc.Submit(ctx, asActor(writer), a.ID)
		require.NoError(t, err)
		a, err = svc.Approve(ctx, asActor(reviewer), a.ID, "")
		require.NoError(t, err)
		require.Equal(t, domain.StatusApproved, a.Status)
	})

	t.Run("editing approved pulls back to draft", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)
		a, _ = svc.Approve(ctx, asActor(reviewer), a.ID, "")

		a, err := svc.Update(ctx, asActor(writer), a.ID, edit)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, a.Status)
	})

	t.Run("published articles are immutable", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)
		a, _ = svc.Approve(ctx, asActor(reviewer), a.ID, "")
		a, _ = svc.Publish(ctx, asActor(admin), a.ID)

		_, err := svc.Update(ctx, asActor(writer), a.ID, edit)
		require.ErrorIs(t, err, ErrInvalidTransition)
		_, err = svc.Update(ctx, asActor(admin), a.ID, edit)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestArticleComments(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	reviewer := seedUser(t, st, "reviewer", domain.RoleReviewer)

	a := draftArticle(t, svc, writer)

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := svc.AddComment(ctx, asActor(reviewer), a.ID, "   ")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("comment notifies the author", func(t *testing.T) {
		c, err := svc.AddComment(ctx, asActor(reviewer), a.ID, "serve una foto")
		require.NoError(t, err)
		require.Equal(t, reviewer.DisplayName(), c.AuthorName)

		notifications, err := st.Notifications().ListNotificationsForUser(ctx, writer.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		require.Equal(t, domain.NotifyArticleComment, notifications[0].Type)
		require.Equal(t, c.ID, notifications[0].Payload.CommentID)
	})

	t.Run("self comment dispatches nothing", func(t *testing.T) {
		_, err := svc.AddComment(ctx, asActor(writer), a.ID, "nota per me")
		require.NoError(t, err)

		count, err := st.Notifications().CountNotificationsForUser(ctx, writer.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("comments come back oldest first", func(t *testing.T) {
		got, err := svc.Get(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, got.Comments, 2)
		require.Equal(t, "serve una foto", got.Comments[0].Body)
	})
}

func TestArticleDelete(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	admin := seedUser(t, st, "root", domain.RoleAdmin)

	t.Run("author may delete own draft", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		require.NoError(t, svc.Delete(ctx, asActor(writer), a.ID))
	})

	t.Run("author may not delete once submitted", func(t *testing.T) {
		a := draftArticle(t, svc, writer)
		a, _ = svc.Submit(ctx, asActor(writer), a.ID)

		err := svc.Delete(ctx, asActor(writer), a.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)

		// Admin still can.
		require.NoError(t, svc.Delete(ctx, asActor(admin), a.ID))
		_, err = svc.Get(ctx, a.ID)
		require.ErrorIs(t, err, ErrArticleNotFound)
	})
}

func TestArticleQueries(t *testing.T) {
	ctx := context.Background()
	svc, st := newArticleService(t)
	writer := seedUser(t, st, "writer", domain.RoleWriter)
	other := seedUser(t, st, "other", domain.RoleWriter)

	a1 := draftArticle(t, svc, writer)
	a2 := draftArticle(t, svc, other)
	_, err := svc.Submit(ctx, asActor(writer), a1.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a2.ID, all[0].ID, "lists come back newest first")

	mine, err := svc.ListByAuthor(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	inReview, err := svc.ListByStatus(ctx, domain.StatusInReview)
	require.NoError(t, err)
	require.Len(t, inReview, 1)
	require.Equal(t, a1.ID, inReview[0].ID)

	_, err = svc.ListByStatus(ctx, "PENDING")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
