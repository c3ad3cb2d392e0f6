package repository

import (
	"context"
	"errors"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository persists comments and replies
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)
	ListTopLevel(ctx context.Context, articleID uint64, offset, limit int) ([]*domain.Comment, int64, error)
	ListReplies(ctx context.Context, parentID uint64) ([]*domain.Comment, error)
	CountReplies(ctx context.Context, parentIDs []uint64) (map[uint64]int64, error)
	DeleteTree(ctx context.Context, id uint64) (int, error)
	TogglePin(ctx context.Context, id uint64) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListTopLevel returns root comments of an article, pinned first then newest
func (r *commentRepository) ListTopLevel(ctx context.Context, articleID uint64, offset, limit int) ([]*domain.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("article_id = ? AND parent_id IS NULL", articleID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.Comment
	err := query.Order("is_top DESC, created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListReplies returns direct replies in posting order
func (r *commentRepository) ListReplies(ctx context.Context, parentID uint64) ([]*domain.Comment, error) {
	var replies []*domain.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) CountReplies(ctx context.Context, parentIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentID uint64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("parent_id, COUNT(*) AS total").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}
	return counts, nil
}

// DeleteTree removes a comment, all of its descendants and their likes in one transaction.
// Returns the number of comments removed.
func (r *commentRepository) DeleteTree(ctx context.Context, id uint64) (int, error) {
	var removed int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint64{id}
		frontier := []uint64{id}
		for len(frontier) > 0 {
			var children []uint64
			if err := tx.Model(&domain.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&domain.CommentLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&domain.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrCommentNotFound
		}
		removed = int(result.RowsAffected)
		return nil
	})
	return removed, err
}

func (r *commentRepository) TogglePin(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("id = ?", id).
		UpdateColumn("is_top", gorm.Expr("NOT is_top"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
