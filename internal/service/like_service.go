package service

import (
	"context"
	"errors"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/repository"
)

// LikeService records exactly-once likes and keeps subject counters consistent with them
type LikeService interface {
	LikeArticle(ctx context.Context, actor *domain.Actor, articleID uint64) (*domain.LikeResult, error)
	UnlikeArticle(ctx context.Context, actor *domain.Actor, articleID uint64) (*domain.LikeResult, error)
	// IsArticleLiked never fails for a missing like; anonymous callers get false
	IsArticleLiked(ctx context.Context, actor *domain.Actor, articleID uint64) (bool, error)
	ListArticleLikers(ctx context.Context, actor *domain.Actor, articleID uint64, page, limit int) (*domain.LikersResponse, error)

	LikeComment(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResult, error)
	UnlikeComment(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResult, error)
	IsCommentLiked(ctx context.Context, actor *domain.Actor, commentID uint64) (bool, error)
}

type likeService struct {
	likes    repository.LikeRepository
	articles repository.ArticleRepository
	comments repository.CommentRepository
}

// NewLikeService creates a new LikeService
func NewLikeService(likes repository.LikeRepository, articles repository.ArticleRepository, comments repository.CommentRepository) LikeService {
	return &likeService{
		likes:    likes,
		articles: articles,
		comments: comments,
	}
}

func (s *likeService) LikeArticle(ctx context.Context, actor *domain.Actor, articleID uint64) (*domain.LikeResult, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != domain.StatusPublished {
		return nil, common.ErrArticleNotPublished
	}
	return s.like(ctx, domain.LikeTargetArticle, articleID, actor.ID)
}

func (s *likeService) UnlikeArticle(ctx context.Context, actor *domain.Actor, articleID uint64) (*domain.LikeResult, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.unlike(ctx, domain.LikeTargetArticle, articleID, actor.ID)
}

func (s *likeService) IsArticleLiked(ctx context.Context, actor *domain.Actor, articleID uint64) (bool, error) {
	if actor.IsAnonymous() {
		return false, nil
	}
	return s.likes.Has(ctx, domain.LikeTargetArticle, articleID, actor.ID)
}

func (s *likeService) ListArticleLikers(ctx context.Context, actor *domain.Actor, articleID uint64, page, limit int) (*domain.LikersResponse, error) {
	if _, err := visibleArticle(ctx, s.articles, actor, articleID); err != nil {
		return nil, err
	}

	page, limit = domain.NormalizePage(page, limit)
	likers, total, err := s.likes.ListLikers(ctx, domain.LikeTargetArticle, articleID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if likers == nil {
		likers = []domain.Liker{}
	}
	return &domain.LikersResponse{Likers: likers, Total: total, Page: page, Limit: limit}, nil
}

func (s *likeService) LikeComment(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResult, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if err := s.commentVisible(ctx, actor, commentID); err != nil {
		return nil, err
	}
	return s.like(ctx, domain.LikeTargetComment, commentID, actor.ID)
}

func (s *likeService) UnlikeComment(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.LikeResult, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if err := s.commentVisible(ctx, actor, commentID); err != nil {
		return nil, err
	}
	return s.unlike(ctx, domain.LikeTargetComment, commentID, actor.ID)
}

// commentVisible resolves the comment and checks the article it hangs off
func (s *likeService) commentVisible(ctx context.Context, actor *domain.Actor, commentID uint64) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	_, err = visibleArticle(ctx, s.articles, actor, comment.ArticleID)
	return err
}

func (s *likeService) IsCommentLiked(ctx context.Context, actor *domain.Actor, commentID uint64) (bool, error) {
	if actor.IsAnonymous() {
		return false, nil
	}
	return s.likes.Has(ctx, domain.LikeTargetComment, commentID, actor.ID)
}

// like checks the ledger first for a friendly error; the unique index still
// decides when two requests race past the check.
func (s *likeService) like(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (*domain.LikeResult, error) {
	has, err := s.likes.Has(ctx, target, subjectID, userID)
	if err != nil {
		return nil, err
	}
	if has {
		ledgerActionsTotal.WithLabelValues(string(target), "like", "duplicate").Inc()
		return nil, common.ErrAlreadyLiked
	}

	count, err := s.likes.Add(ctx, target, subjectID, userID)
	if err != nil {
		ledgerActionsTotal.WithLabelValues(string(target), "like", outcome(err)).Inc()
		return nil, err
	}
	ledgerActionsTotal.WithLabelValues(string(target), "like", "ok").Inc()
	return &domain.LikeResult{LikeCount: count, Liked: true}, nil
}

func (s *likeService) unlike(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (*domain.LikeResult, error) {
	count, err := s.likes.Remove(ctx, target, subjectID, userID)
	if err != nil {
		ledgerActionsTotal.WithLabelValues(string(target), "unlike", outcome(err)).Inc()
		return nil, err
	}
	ledgerActionsTotal.WithLabelValues(string(target), "unlike", "ok").Inc()
	return &domain.LikeResult{LikeCount: count, Liked: false}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return "duplicate"
	case errors.Is(err, common.ErrNotFound):
		return "missing"
	case errors.Is(err, common.ErrState):
		return "rejected"
	default:
		return "error"
	}
}
