package service

import (
	"context"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/repository"
)

// CommentService manages threaded comments on articles
type CommentService interface {
	Create(ctx context.Context, actor *domain.Actor, req *domain.CreateCommentRequest) (*domain.Comment, error)
	ListByArticle(ctx context.Context, actor *domain.Actor, articleID uint64, page, pageSize int) (*domain.CommentPage, error)
	ListReplies(ctx context.Context, actor *domain.Actor, commentID uint64) ([]domain.CommentResponse, error)
	Delete(ctx context.Context, actor *domain.Actor, commentID uint64) error
	TogglePin(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.Comment, error)
}

type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	likes    repository.LikeRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, likes repository.LikeRepository) CommentService {
	return &commentService{
		comments: comments,
		articles: articles,
		likes:    likes,
	}
}

// visibleArticle loads an article the actor is allowed to read. Hidden articles
// report not found rather than forbidden.
func visibleArticle(ctx context.Context, articles repository.ArticleRepository, actor *domain.Actor, articleID uint64) (*domain.Article, error) {
	article, err := articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.VisibleTo(actor) {
		return nil, common.ErrArticleNotFound
	}
	return article, nil
}

func (s *commentService) Create(ctx context.Context, actor *domain.Actor, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := requireText("content", req.Content); err != nil {
		return nil, err
	}
	if _, err := visibleArticle(ctx, s.articles, actor, req.ArticleID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != req.ArticleID {
			return nil, common.ErrParentMismatch
		}
	}

	comment := &domain.Comment{
		ArticleID: req.ArticleID,
		ParentID:  req.ParentID,
		AuthorID:  actor.ID,
		Content:   strings.TrimSpace(req.Content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByArticle(ctx context.Context, actor *domain.Actor, articleID uint64, page, pageSize int) (*domain.CommentPage, error) {
	if _, err := visibleArticle(ctx, s.articles, actor, articleID); err != nil {
		return nil, err
	}

	page, pageSize = domain.NormalizePage(page, pageSize)
	comments, total, err := s.comments.ListTopLevel(ctx, articleID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.decorate(ctx, actor, comments)
	if err != nil {
		return nil, err
	}
	next, previous := domain.PageLinks(page, pageSize, total)
	return &domain.CommentPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Next:     next,
		Previous: previous,
	}, nil
}

func (s *commentService) ListReplies(ctx context.Context, actor *domain.Actor, commentID uint64) ([]domain.CommentResponse, error) {
	parent, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := visibleArticle(ctx, s.articles, actor, parent.ArticleID); err != nil {
		return nil, err
	}

	replies, err := s.comments.ListReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor, replies)
}

// decorate attaches reply counts and the viewer's like state
func (s *commentService) decorate(ctx context.Context, actor *domain.Actor, comments []*domain.Comment) ([]domain.CommentResponse, error) {
	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	replyCounts, err := s.comments.CountReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.LikedAmong(ctx, domain.LikeTargetComment, actor.UserID(), ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, domain.CommentResponse{
			Comment:    *c,
			ReplyCount: replyCounts[c.ID],
			IsLiked:    liked[c.ID],
		})
	}
	return out, nil
}

// Delete is allowed for the comment author, the article owner and admins
func (s *commentService) Delete(ctx context.Context, actor *domain.Actor, commentID uint64) error {
	if actor.IsAnonymous() {
		return common.ErrLoginRequired
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !actor.Admin() && !actor.Owns(comment.AuthorID) {
		article, err := s.articles.FindByID(ctx, comment.ArticleID)
		if err != nil {
			return err
		}
		if !actor.Owns(article.AuthorID) {
			return common.Permission("only the comment author, the article owner or an admin can delete this comment")
		}
	}

	_, err = s.comments.DeleteTree(ctx, commentID)
	return err
}

func (s *commentService) TogglePin(ctx context.Context, actor *domain.Actor, commentID uint64) (*domain.Comment, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if !actor.Admin() {
		return nil, common.ErrAdminRequired
	}
	ok, err := s.comments.TogglePin(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrCommentNotFound
	}
	return s.comments.FindByID(ctx, commentID)
}
