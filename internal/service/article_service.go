package service

import (
	"context"
	"strings"
	"time"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/repository"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/buildlore/heritage-backend/pkg/markdown"
)

const maxTagsLength = 200

// MediaKind selects where an uploaded image is attached
type MediaKind string

const (
	MediaCover   MediaKind = "cover"
	MediaContent MediaKind = "content"
)

// ArticleService owns the article state machine and its timestamp bookkeeping
type ArticleService interface {
	Create(ctx context.Context, actor *domain.Actor, req *domain.CreateArticleRequest) (*domain.Article, error)
	Update(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateArticleRequest) (*domain.Article, error)
	SubmitForReview(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error)
	Review(ctx context.Context, actor *domain.Actor, id uint64, req *domain.ReviewRequest) (*domain.Article, error)
	// Get returns an article the actor may see, recording a view when it is published
	Get(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error)
	RecordView(ctx context.Context, id uint64) error
	Delete(ctx context.Context, actor *domain.Actor, id uint64) error
	ToggleFeatured(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error)
	AttachMedia(ctx context.Context, actor *domain.Actor, id uint64, kind MediaKind, file *MediaUpload) (*domain.Article, error)
}

type articleService struct {
	repo      repository.ArticleRepository
	buildings repository.BuildingRepository
	media     *MediaService
	rewriter  *markdown.URLRewriter
	now       func() time.Time
}

// NewArticleService creates a new ArticleService
func NewArticleService(repo repository.ArticleRepository, buildings repository.BuildingRepository, media *MediaService, rewriter *markdown.URLRewriter) ArticleService {
	return &articleService{
		repo:      repo,
		buildings: buildings,
		media:     media,
		rewriter:  rewriter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *articleService) Create(ctx context.Context, actor *domain.Actor, req *domain.CreateArticleRequest) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := requireText("title", req.Title); err != nil {
		return nil, err
	}
	if err := requireText("content", req.Content); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if err := checkRequestedStatus(actor, status); err != nil {
		return nil, err
	}
	if req.IsFeatured && !actor.Admin() {
		return nil, common.Permission("only admins can feature an article")
	}

	tags := domain.JoinList(req.Tags)
	if len(tags) > maxTagsLength {
		return nil, common.Validation("tags must be at most %d characters", maxTagsLength)
	}
	if req.BuildingID != nil {
		if err := s.checkBuilding(ctx, *req.BuildingID); err != nil {
			return nil, err
		}
	}

	article := &domain.Article{
		Title:         strings.TrimSpace(req.Title),
		Content:       s.rewriter.Rewrite(req.Content),
		AuthorID:      actor.ID,
		BuildingID:    req.BuildingID,
		CoverImage:    strings.TrimSpace(req.CoverImage),
		ContentImages: domain.JoinList(req.ContentImages),
		Tags:          tags,
		IsFeatured:    req.IsFeatured,
	}
	article.ApplyStatus(status, s.now())

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	recordTransition("new", string(status))
	return article, nil
}

// checkRequestedStatus enforces which initial or target states an actor may ask for
func checkRequestedStatus(actor *domain.Actor, status domain.ArticleStatus) error {
	if !status.Valid() {
		return statusError(string(status))
	}
	if !actor.Admin() && !status.OwnerRequestable() {
		return common.Validation("status %q can only be set by an admin", status)
	}
	return nil
}

// checkBuilding rejects references to buildings that do not exist
func (s *articleService) checkBuilding(ctx context.Context, id uint64) error {
	ok, err := s.buildings.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.Validation("building_id %d does not reference a building", id)
	}
	return nil
}

func (s *articleService) Update(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateArticleRequest) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// admins may change any field in any state
	if !actor.Admin() {
		if !actor.Owns(article.AuthorID) {
			return nil, common.ErrNotOwner
		}
		if !article.Status.Editable() {
			return nil, common.ErrArticleNotEditable
		}
		if req.IsFeatured != nil {
			return nil, common.Permission("only admins can feature an article")
		}
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if err := requireText("title", *req.Title); err != nil {
			return nil, err
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		if err := requireText("content", *req.Content); err != nil {
			return nil, err
		}
		updates["content"] = s.rewriter.Rewrite(*req.Content)
	}
	if req.BuildingID != nil {
		if err := s.checkBuilding(ctx, *req.BuildingID); err != nil {
			return nil, err
		}
		updates["building_id"] = *req.BuildingID
	}
	if req.CoverImage != nil {
		updates["cover_image"] = strings.TrimSpace(*req.CoverImage)
	}
	if req.ContentImages != nil {
		updates["content_images"] = domain.JoinList(*req.ContentImages)
	}
	if req.Tags != nil {
		tags := domain.JoinList(*req.Tags)
		if len(tags) > maxTagsLength {
			return nil, common.Validation("tags must be at most %d characters", maxTagsLength)
		}
		updates["tags"] = tags
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Status != nil {
		if err := checkRequestedStatus(actor, *req.Status); err != nil {
			return nil, err
		}
		for k, v := range domain.StatusUpdates(*req.Status, s.now()) {
			updates[k] = v
		}
	}

	if len(updates) == 0 {
		return article, nil
	}

	ok, err := s.repo.UpdateIfStatus(ctx, id, article.Status, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrArticleModified
	}
	if req.Status != nil && *req.Status != article.Status {
		recordTransition(string(article.Status), string(*req.Status))
	}
	if req.CoverImage != nil && article.CoverImage != "" && article.CoverImage != updates["cover_image"] {
		s.media.Release(ctx, []string{article.CoverImage})
	}

	return s.repo.FindByID(ctx, id)
}

func (s *articleService) SubmitForReview(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin() && !actor.Owns(article.AuthorID) {
		return nil, common.ErrNotOwner
	}
	if !article.Status.Editable() {
		return nil, common.State("cannot submit an article in %s state", article.Status)
	}

	target := domain.StatusReviewing
	if actor.Admin() {
		target = domain.StatusPublished
	}

	ok, err := s.repo.UpdateIfStatus(ctx, id, article.Status, domain.StatusUpdates(target, s.now()))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.State("article status changed while submitting")
	}
	recordTransition(string(article.Status), string(target))

	return s.repo.FindByID(ctx, id)
}

func (s *articleService) Review(ctx context.Context, actor *domain.Actor, id uint64, req *domain.ReviewRequest) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if !actor.Admin() {
		return nil, common.ErrAdminRequired
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != domain.StatusReviewing {
		return nil, common.State("only articles under review can be reviewed, current status is %s", article.Status)
	}

	target := domain.StatusPublished
	if req.Decision == domain.DecisionReject {
		target = domain.StatusReviewFailed
	}
	updates := domain.StatusUpdates(target, s.now())
	updates["review_note"] = strings.TrimSpace(req.Note)

	ok, err := s.repo.UpdateIfStatus(ctx, id, domain.StatusReviewing, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.State("article is no longer under review")
	}
	recordTransition(string(domain.StatusReviewing), string(target))

	pkglogger.GetLogger().Info().
		Uint64("article_id", id).
		Str("reviewer", actor.ID).
		Str("decision", string(req.Decision)).
		Msg("article reviewed")

	return s.repo.FindByID(ctx, id)
}

func (s *articleService) Get(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if article.Status != domain.StatusPublished {
		// unpublished items are invisible rather than forbidden to everyone else
		if !article.VisibleTo(actor) {
			return nil, common.ErrArticleNotFound
		}
		return article, nil
	}

	bumped, err := s.repo.IncrementViewCount(ctx, id)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("article_id", id).Msg("failed to record view")
		return article, nil
	}
	if bumped {
		article.ViewCount++
		articleViewsTotal.Inc()
	}
	return article, nil
}

// RecordView is a no-op for articles that are not published
func (s *articleService) RecordView(ctx context.Context, id uint64) error {
	bumped, err := s.repo.IncrementViewCount(ctx, id)
	if err != nil {
		return err
	}
	if bumped {
		articleViewsTotal.Inc()
	}
	return nil
}

func (s *articleService) Delete(ctx context.Context, actor *domain.Actor, id uint64) error {
	if actor.IsAnonymous() {
		return common.ErrLoginRequired
	}
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Admin() && !actor.Owns(article.AuthorID) {
		return common.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Release(ctx, article.MediaKeys())
	return nil
}

func (s *articleService) ToggleFeatured(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if !actor.Admin() {
		return nil, common.ErrAdminRequired
	}
	ok, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrArticleNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *articleService) AttachMedia(ctx context.Context, actor *domain.Actor, id uint64, kind MediaKind, file *MediaUpload) (*domain.Article, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if kind != MediaCover && kind != MediaContent {
		return nil, common.Validation("kind must be one of [cover content]")
	}
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin() {
		if !actor.Owns(article.AuthorID) {
			return nil, common.ErrNotOwner
		}
		if !article.Status.Editable() {
			return nil, common.ErrArticleNotEditable
		}
	}

	uploaded, err := s.media.UploadImage(ctx, "articles/"+string(kind), file)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if kind == MediaCover {
		updates["cover_image"] = uploaded.Key
	} else {
		updates["content_images"] = domain.JoinList(append(article.ImageList(), uploaded.Key))
	}

	ok, err := s.repo.UpdateIfStatus(ctx, id, article.Status, updates)
	if err != nil || !ok {
		s.media.Release(ctx, []string{uploaded.Key})
		if err != nil {
			return nil, err
		}
		return nil, common.ErrArticleModified
	}
	if kind == MediaCover && article.CoverImage != "" {
		s.media.Release(ctx, []string{article.CoverImage})
	}

	return s.repo.FindByID(ctx, id)
}
