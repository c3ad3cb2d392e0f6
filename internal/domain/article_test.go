package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyStatus_Timestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, s := range []ArticleStatus{StatusDraft, StatusReviewing, StatusReviewFailed} {
		a := &Article{PublishedAt: &now}
		a.ApplyStatus(s, now)
		assert.Equal(t, s, a.Status)
		if assert.NotNil(t, a.DraftSavedAt, s) {
			assert.True(t, a.DraftSavedAt.Equal(now))
		}
		assert.Nil(t, a.PublishedAt, s)
	}

	a := &Article{DraftSavedAt: &now}
	a.ApplyStatus(StatusPublished, now)
	assert.Nil(t, a.DraftSavedAt)
	if assert.NotNil(t, a.PublishedAt) {
		assert.True(t, a.PublishedAt.Equal(now))
	}
}

func TestStatusUpdates(t *testing.T) {
	now := time.Now().UTC()

	u := StatusUpdates(StatusPublished, now)
	assert.Equal(t, StatusPublished, u["status"])
	assert.Equal(t, now, u["published_at"])
	assert.Nil(t, u["draft_saved_at"])

	u = StatusUpdates(StatusReviewFailed, now)
	assert.Equal(t, now, u["draft_saved_at"])
	assert.Nil(t, u["published_at"])
	assert.Contains(t, u, "published_at")
}

func TestArticleStatus_Predicates(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusReviewFailed.Editable())
	assert.False(t, StatusReviewing.Editable())
	assert.False(t, StatusPublished.Editable())

	assert.True(t, StatusReviewing.OwnerRequestable())
	assert.False(t, StatusPublished.OwnerRequestable())
	assert.False(t, StatusReviewFailed.OwnerRequestable())

	assert.False(t, ArticleStatus("archived").Valid())
	assert.False(t, ArticleStatus("").Valid())
}

func TestSplitJoinList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, "hutong,siheyuan", JoinList([]string{" hutong ", "", "siheyuan"}))
	assert.Equal(t, "a b", JoinList([]string{"a,b"}))
}

func TestMediaKeys(t *testing.T) {
	a := &Article{CoverImage: "covers/1.jpg", ContentImages: "body/1.png,body/2.png"}
	assert.Equal(t, []string{"covers/1.jpg", "body/1.png", "body/2.png"}, a.MediaKeys())
	assert.Empty(t, (&Article{}).MediaKeys())
}

func TestPageLinks(t *testing.T) {
	next, prev := PageLinks(1, 10, 25)
	assert.Nil(t, prev)
	if assert.NotNil(t, next) {
		assert.Equal(t, 2, *next)
	}

	next, prev = PageLinks(3, 10, 25)
	assert.Nil(t, next)
	if assert.NotNil(t, prev) {
		assert.Equal(t, 2, *prev)
	}

	next, prev = PageLinks(1, 10, 0)
	assert.Nil(t, next)
	assert.Nil(t, prev)
}

func TestNormalizePage(t *testing.T) {
	p, s := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, s)

	_, s = NormalizePage(2, 500)
	assert.Equal(t, MaxPageSize, s)

	_, s = NormalizePage(1, 25)
	assert.Equal(t, 25, s)
}

func TestActor(t *testing.T) {
	var anon *Actor
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.Admin())
	assert.False(t, anon.Owns(""))
	assert.Equal(t, "", anon.UserID())

	owner := &Actor{ID: "u1"}
	assert.True(t, owner.Owns("u1"))
	assert.False(t, owner.Owns("u2"))
	assert.False(t, owner.Admin())

	assert.True(t, (&Actor{ID: "root", IsAdmin: true}).Admin())
}

func TestVisibleTo(t *testing.T) {
	draft := &Article{AuthorID: "owner", Status: StatusReviewing}
	assert.True(t, draft.VisibleTo(&Actor{ID: "owner"}))
	assert.True(t, draft.VisibleTo(&Actor{ID: "staff", IsAdmin: true}))
	assert.False(t, draft.VisibleTo(&Actor{ID: "stranger"}))
	assert.False(t, draft.VisibleTo(nil))

	published := &Article{AuthorID: "owner", Status: StatusPublished}
	assert.True(t, published.VisibleTo(nil))
}
