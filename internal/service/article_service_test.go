package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/pkg/markdown"
	"github.com/buildlore/heritage-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	owner    = &domain.Actor{ID: "owner"}
	stranger = &domain.Actor{ID: "stranger"}
	admin    = &domain.Actor{ID: "admin", IsAdmin: true}
)

func newTestArticleService(repo *mockArticleRepo, store MediaStore) *articleService {
	var media *MediaService
	if store != nil {
		media = NewMediaService(store)
	}
	svc := NewArticleService(repo, new(mockBuildingRepo), media, markdown.NewURLRewriter("https://heritage.example.com", nil)).(*articleService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func articleIn(status domain.ArticleStatus) *domain.Article {
	a := &domain.Article{ID: 1, Title: "Tulou", Content: "Round houses", AuthorID: "owner"}
	a.ApplyStatus(status, fixedNow.Add(-time.Hour))
	return a
}

func statusIs(status domain.ArticleStatus) interface{} {
	return mock.MatchedBy(func(u map[string]interface{}) bool { return u["status"] == status })
}

// --- Create ---

func TestCreate_OwnerDraft(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Article")).Return(nil)

	article, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{
		Title:   "  Tulou  ",
		Content: "Round houses",
		Status:  domain.StatusDraft,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, article.Status)
	assert.Equal(t, "Tulou", article.Title)
	assert.Equal(t, "owner", article.AuthorID)
	if assert.NotNil(t, article.DraftSavedAt) {
		assert.True(t, article.DraftSavedAt.Equal(fixedNow))
	}
	assert.Nil(t, article.PublishedAt)
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	article, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, article.Status)
}

func TestCreate_OwnerMaySubmitDirectly(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	article, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c", Status: domain.StatusReviewing})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, article.Status)
	assert.NotNil(t, article.DraftSavedAt)
}

func TestCreate_OwnerCannotRequestPublished(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	for _, st := range []domain.ArticleStatus{domain.StatusPublished, domain.StatusReviewFailed} {
		_, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c", Status: st})
		assert.ErrorIs(t, err, common.ErrValidation, st)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_AdminPublishesDirectly(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	article, err := svc.Create(context.Background(), admin, &domain.CreateArticleRequest{
		Title: "t", Content: "c", Status: domain.StatusPublished, IsFeatured: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, article.Status)
	assert.NotNil(t, article.PublishedAt)
	assert.Nil(t, article.DraftSavedAt)
	assert.True(t, article.IsFeatured)
}

func TestCreate_BuildingMustExist(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	buildings := svc.buildings.(*mockBuildingRepo)
	buildings.On("Exists", mock.Anything, uint64(7)).Return(true, nil)
	buildings.On("Exists", mock.Anything, uint64(8)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	known := uint64(7)
	article, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c", BuildingID: &known})
	require.NoError(t, err)
	require.NotNil(t, article.BuildingID)
	assert.Equal(t, known, *article.BuildingID)

	unknown := uint64(8)
	_, err = svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c", BuildingID: &unknown})
	assert.ErrorIs(t, err, common.ErrValidation)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreate_Validation(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	tests := []struct {
		name string
		req  domain.CreateArticleRequest
	}{
		{"missing title", domain.CreateArticleRequest{Content: "c"}},
		{"blank title", domain.CreateArticleRequest{Title: "   ", Content: "c"}},
		{"missing content", domain.CreateArticleRequest{Title: "t"}},
		{"title too long", domain.CreateArticleRequest{Title: strings.Repeat("x", 201), Content: "c"}},
		{"unknown status", domain.CreateArticleRequest{Title: "t", Content: "c", Status: "archived"}},
		{"tags too long", domain.CreateArticleRequest{Title: "t", Content: "c", Tags: []string{
			strings.Repeat("a", 50), strings.Repeat("b", 50), strings.Repeat("c", 50), strings.Repeat("d", 50), "e",
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, &tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestCreate_Anonymous(t *testing.T) {
	svc := newTestArticleService(new(mockArticleRepo), nil)

	_, err := svc.Create(context.Background(), nil, &domain.CreateArticleRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCreate_FeaturedRequiresAdmin(t *testing.T) {
	svc := newTestArticleService(new(mockArticleRepo), nil)

	_, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{Title: "t", Content: "c", IsFeatured: true})
	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestCreate_RewritesImageURLs(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	article, err := svc.Create(context.Background(), owner, &domain.CreateArticleRequest{
		Title: "t", Content: "![gate](/media/gate.jpg)", Tags: []string{"hutong", "siheyuan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "![gate](https://heritage.example.com/media/gate.jpg)", article.Content)
	assert.Equal(t, "hutong,siheyuan", article.Tags)
}

// --- SubmitForReview ---

func TestSubmitForReview_OwnerDraftToReviewing(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, statusIs(domain.StatusReviewing)).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewing), nil).Once()

	article, err := svc.SubmitForReview(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, article.Status)
	repo.AssertExpectations(t)
}

func TestSubmitForReview_FromReviewFailed(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewFailed), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusReviewFailed, statusIs(domain.StatusReviewing)).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewing), nil).Once()

	_, err := svc.SubmitForReview(context.Background(), owner, 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubmitForReview_AdminPublishes(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.StatusPublished && u["published_at"] == fixedNow && u["draft_saved_at"] == nil
	})).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil).Once()

	article, err := svc.SubmitForReview(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, article.Status)
	repo.AssertExpectations(t)
}

func TestSubmitForReview_WrongState(t *testing.T) {
	for _, st := range []domain.ArticleStatus{domain.StatusReviewing, domain.StatusPublished} {
		repo := new(mockArticleRepo)
		svc := newTestArticleService(repo, nil)
		repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(st), nil)

		_, err := svc.SubmitForReview(context.Background(), owner, 1)
		assert.ErrorIs(t, err, common.ErrState, st)
		repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestSubmitForReview_NotOwner(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	_, err := svc.SubmitForReview(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestSubmitForReview_NotFound(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(9)).Return(nil, common.ErrArticleNotFound)

	_, err := svc.SubmitForReview(context.Background(), owner, 9)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubmitForReview_LostRace(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, mock.Anything).Return(false, nil)

	_, err := svc.SubmitForReview(context.Background(), owner, 1)
	assert.ErrorIs(t, err, common.ErrState)
}

// --- Review ---

func TestReview_Approve(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewing), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusReviewing, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.StatusPublished && u["published_at"] == fixedNow && u["draft_saved_at"] == nil
	})).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil).Once()

	article, err := svc.Review(context.Background(), admin, 1, &domain.ReviewRequest{Decision: domain.DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, article.Status)
	assert.NotNil(t, article.PublishedAt)
	assert.Nil(t, article.DraftSavedAt)
	repo.AssertExpectations(t)
}

func TestReview_RejectStoresNote(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewing), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusReviewing, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.StatusReviewFailed && u["review_note"] == "needs sources" && u["published_at"] == nil
	})).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusReviewFailed), nil).Once()

	_, err := svc.Review(context.Background(), admin, 1, &domain.ReviewRequest{Decision: domain.DecisionReject, Note: " needs sources "})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReview_RequiresAdmin(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	_, err := svc.Review(context.Background(), owner, 1, &domain.ReviewRequest{Decision: domain.DecisionApprove})
	assert.ErrorIs(t, err, common.ErrPermission)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestReview_NotReviewing(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	_, err := svc.Review(context.Background(), admin, 1, &domain.ReviewRequest{Decision: domain.DecisionApprove})
	assert.ErrorIs(t, err, common.ErrState)
}

func TestReview_UnknownDecision(t *testing.T) {
	svc := newTestArticleService(new(mockArticleRepo), nil)

	_, err := svc.Review(context.Background(), admin, 1, &domain.ReviewRequest{Decision: "maybe"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

// --- Update ---

func TestUpdate_NonOwnerDenied(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	title := "hijacked"
	_, err := svc.Update(context.Background(), stranger, 1, &domain.UpdateArticleRequest{Title: &title})
	assert.ErrorIs(t, err, common.ErrPermission)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OwnerLockedOutsideEditableStates(t *testing.T) {
	for _, st := range []domain.ArticleStatus{domain.StatusReviewing, domain.StatusPublished} {
		repo := new(mockArticleRepo)
		svc := newTestArticleService(repo, nil)
		repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(st), nil)

		title := "edit"
		_, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{Title: &title})
		assert.ErrorIs(t, err, common.ErrPermission, st)
	}
}

func TestUpdate_OwnerCannotFeature(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	featured := true
	_, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{IsFeatured: &featured})
	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestUpdate_OwnerCannotPublish(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	st := domain.StatusPublished
	_, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{Status: &st})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdate_OwnerEditsDraft(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	updated := articleIn(domain.StatusDraft)
	updated.Title = "Tulou of Fujian"

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasStatus := u["status"]
		return u["title"] == "Tulou of Fujian" && u["tags"] == "fujian" && !hasStatus
	})).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(updated, nil).Once()

	title := "Tulou of Fujian"
	tags := []string{"fujian"}
	article, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "Tulou of Fujian", article.Title)
	repo.AssertExpectations(t)
}

func TestUpdate_AdminMovesPublishedBackToDraft(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil).Once()
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusPublished, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.StatusDraft && u["draft_saved_at"] == fixedNow && u["published_at"] == nil
	})).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil).Once()

	st := domain.StatusDraft
	article, err := svc.Update(context.Background(), admin, 1, &domain.UpdateArticleRequest{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, article.Status)
	repo.AssertExpectations(t)
}

func TestUpdate_ConcurrentModification(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, mock.Anything).Return(false, nil)

	title := "t"
	_, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{Title: &title})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUpdate_UnknownBuildingRejected(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	svc.buildings.(*mockBuildingRepo).On("Exists", mock.Anything, uint64(404)).Return(false, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	building := uint64(404)
	_, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{BuildingID: &building})
	assert.ErrorIs(t, err, common.ErrValidation)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(9)).Return(nil, common.ErrArticleNotFound)

	_, err := svc.Update(context.Background(), admin, 9, &domain.UpdateArticleRequest{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_EmptyIsNoop(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	article, err := svc.Update(context.Background(), owner, 1, &domain.UpdateArticleRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), article.ID)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Get / RecordView ---

func TestGet_PublishedRecordsView(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	a := articleIn(domain.StatusPublished)
	a.ViewCount = 4
	repo.On("FindByID", mock.Anything, uint64(1)).Return(a, nil)
	repo.On("IncrementViewCount", mock.Anything, uint64(1)).Return(true, nil)

	article, err := svc.Get(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), article.ViewCount)
}

func TestGet_UnpublishedHiddenFromOthers(t *testing.T) {
	for _, st := range []domain.ArticleStatus{domain.StatusDraft, domain.StatusReviewing, domain.StatusReviewFailed} {
		repo := new(mockArticleRepo)
		svc := newTestArticleService(repo, nil)
		repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(st), nil)

		_, err := svc.Get(context.Background(), stranger, 1)
		assert.ErrorIs(t, err, common.ErrNotFound, st)
		_, err = svc.Get(context.Background(), nil, 1)
		assert.ErrorIs(t, err, common.ErrNotFound, st)
		repo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
	}
}

func TestGet_UnpublishedVisibleToOwnerAndAdmin(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	_, err := svc.Get(context.Background(), owner, 1)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), admin, 1)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
}

func TestGet_ViewFailureStillReturnsArticle(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	repo.On("IncrementViewCount", mock.Anything, uint64(1)).Return(false, errors.New("deadlock"))

	article, err := svc.Get(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), article.ViewCount)
}

func TestRecordView_NoopWhenNotPublished(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("IncrementViewCount", mock.Anything, uint64(1)).Return(false, nil)

	assert.NoError(t, svc.RecordView(context.Background(), 1))
}

// --- Delete / ToggleFeatured ---

func TestDelete_ReleasesMedia(t *testing.T) {
	repo := new(mockArticleRepo)
	store := new(mockMediaStore)
	svc := newTestArticleService(repo, store)

	a := articleIn(domain.StatusPublished)
	a.CoverImage = "articles/cover/a.jpg"
	a.ContentImages = "articles/content/b.png"
	repo.On("FindByID", mock.Anything, uint64(1)).Return(a, nil)
	repo.On("Delete", mock.Anything, uint64(1)).Return(nil)
	store.On("Delete", mock.Anything, "articles/cover/a.jpg").Return(errors.New("s3 unavailable"))
	store.On("Delete", mock.Anything, "articles/content/b.png").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), owner, 1))
	store.AssertExpectations(t)
}

func TestDelete_NotOwner(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)

	err := svc.Delete(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, common.ErrPermission)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Admin(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)
	repo.On("Delete", mock.Anything, uint64(1)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), admin, 1))
}

func TestToggleFeatured(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)

	_, err := svc.ToggleFeatured(context.Background(), owner, 1)
	assert.ErrorIs(t, err, common.ErrPermission)

	repo.On("ToggleFeatured", mock.Anything, uint64(2)).Return(false, nil)
	_, err = svc.ToggleFeatured(context.Background(), admin, 2)
	assert.ErrorIs(t, err, common.ErrNotFound)

	featured := articleIn(domain.StatusPublished)
	featured.IsFeatured = true
	repo.On("ToggleFeatured", mock.Anything, uint64(1)).Return(true, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(featured, nil)
	article, err := svc.ToggleFeatured(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.True(t, article.IsFeatured)
}

// --- AttachMedia ---

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestAttachMedia_ReplacesCover(t *testing.T) {
	repo := new(mockArticleRepo)
	store := new(mockMediaStore)
	svc := newTestArticleService(repo, store)

	a := articleIn(domain.StatusDraft)
	a.CoverImage = "articles/cover/old.png"
	repo.On("FindByID", mock.Anything, uint64(1)).Return(a, nil)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.HasPrefix(k, "articles/cover/") }),
		mock.Anything, "image/png", int64(len(pngHeader))).
		Return(&storage.UploadResult{Key: "articles/cover/new.png"}, nil)
	repo.On("UpdateIfStatus", mock.Anything, uint64(1), domain.StatusDraft, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["cover_image"] == "articles/cover/new.png"
	})).Return(true, nil)
	store.On("Delete", mock.Anything, "articles/cover/old.png").Return(nil)

	_, err := svc.AttachMedia(context.Background(), owner, 1, MediaCover, &MediaUpload{
		Filename: "gate.png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestAttachMedia_RejectsNonImage(t *testing.T) {
	repo := new(mockArticleRepo)
	store := new(mockMediaStore)
	svc := newTestArticleService(repo, store)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	_, err := svc.AttachMedia(context.Background(), owner, 1, MediaContent, &MediaUpload{
		Filename: "notes.png", Size: 5, Body: strings.NewReader("hello"),
	})
	assert.ErrorIs(t, err, common.ErrValidation)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachMedia_NoStore(t *testing.T) {
	repo := new(mockArticleRepo)
	svc := newTestArticleService(repo, nil)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusDraft), nil)

	_, err := svc.AttachMedia(context.Background(), owner, 1, MediaCover, &MediaUpload{
		Filename: "gate.png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
	})
	assert.ErrorIs(t, err, common.ErrMediaUnavailable)
}
