package repository

import (
	"context"
	"fmt"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// LikeRepository is the engagement ledger: like rows plus the denormalized
// like_count on the subject, always mutated in one transaction.
type LikeRepository interface {
	Has(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (bool, error)
	// Add inserts the like row and increments the subject counter, returning the new count.
	Add(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error)
	// Remove deletes the like row and decrements the subject counter (floored at 0), returning the new count.
	Remove(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error)
	LikedAmong(ctx context.Context, target domain.LikeTarget, userID string, subjectIDs []uint64) (map[uint64]bool, error)
	ListLikers(ctx context.Context, target domain.LikeTarget, subjectID uint64, offset, limit int) ([]domain.Liker, int64, error)
	CountLikes(ctx context.Context, target domain.LikeTarget, subjectID uint64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// ledgerTable describes where a target's rows and counter live
type ledgerTable struct {
	likeModel     interface{}
	likeTable     string
	subjectColumn string
	subjectTable  string
	// requirePublished gates the increment on the subject's status
	requirePublished bool
	unavailable      error
}

func tableFor(target domain.LikeTarget) (ledgerTable, error) {
	switch target {
	case domain.LikeTargetArticle:
		return ledgerTable{
			likeModel:        &domain.ArticleLike{},
			likeTable:        domain.ArticleLike{}.TableName(),
			subjectColumn:    "article_id",
			subjectTable:     domain.Article{}.TableName(),
			requirePublished: true,
			unavailable:      common.ErrArticleNotPublished,
		}, nil
	case domain.LikeTargetComment:
		return ledgerTable{
			likeModel:     &domain.CommentLike{},
			likeTable:     domain.CommentLike{}.TableName(),
			subjectColumn: "comment_id",
			subjectTable:  domain.Comment{}.TableName(),
			unavailable:   common.ErrCommentNotFound,
		}, nil
	}
	return ledgerTable{}, fmt.Errorf("unknown like target %q", target)
}

func newLikeRow(target domain.LikeTarget, subjectID uint64, userID string) interface{} {
	if target == domain.LikeTargetComment {
		return &domain.CommentLike{CommentID: subjectID, UserID: userID}
	}
	return &domain.ArticleLike{ArticleID: subjectID, UserID: userID}
}

// Has checks if a user already liked the subject
func (r *likeRepository) Has(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (bool, error) {
	t, err := tableFor(target)
	if err != nil {
		return false, err
	}
	var count int64
	err = r.db.WithContext(ctx).Model(t.likeModel).
		Where(t.subjectColumn+" = ? AND user_id = ?", subjectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) Add(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error) {
	t, err := tableFor(target)
	if err != nil {
		return 0, err
	}

	var likeCount int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newLikeRow(target, subjectID, userID)).Error; err != nil {
			if isDuplicateKey(err) {
				return common.ErrAlreadyLiked
			}
			return err
		}

		query := tx.Table(t.subjectTable).Where("id = ?", subjectID)
		if t.requirePublished {
			query = query.Where("status = ?", domain.StatusPublished)
		}
		result := query.UpdateColumn("like_count", gorm.Expr("like_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// subject vanished or left the published state; drop the ledger row with it
			return t.unavailable
		}

		return tx.Table(t.subjectTable).Select("like_count").Where("id = ?", subjectID).Scan(&likeCount).Error
	})
	return likeCount, err
}

func (r *likeRepository) Remove(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error) {
	t, err := tableFor(target)
	if err != nil {
		return 0, err
	}

	var likeCount int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(t.subjectColumn+" = ? AND user_id = ?", subjectID, userID).Delete(t.likeModel)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotLiked
		}

		err := tx.Table(t.subjectTable).Where("id = ?", subjectID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
		if err != nil {
			return err
		}

		return tx.Table(t.subjectTable).Select("like_count").Where("id = ?", subjectID).Scan(&likeCount).Error
	})
	return likeCount, err
}

// LikedAmong returns which of subjectIDs the user has liked
func (r *likeRepository) LikedAmong(ctx context.Context, target domain.LikeTarget, userID string, subjectIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool, len(subjectIDs))
	if userID == "" || len(subjectIDs) == 0 {
		return liked, nil
	}
	t, err := tableFor(target)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	err = r.db.WithContext(ctx).Model(t.likeModel).
		Where("user_id = ? AND "+t.subjectColumn+" IN ?", userID, subjectIDs).
		Pluck(t.subjectColumn, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ListLikers returns users who liked the subject, newest first
func (r *likeRepository) ListLikers(ctx context.Context, target domain.LikeTarget, subjectID uint64, offset, limit int) ([]domain.Liker, int64, error) {
	t, err := tableFor(target)
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(t.likeModel).Where(t.subjectColumn+" = ?", subjectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likers []domain.Liker
	err = query.Select("user_id, created_at AS liked_at").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Scan(&likers).Error
	if err != nil {
		return nil, 0, err
	}
	return likers, total, nil
}

// CountLikes counts ledger rows for the subject, used to verify the denormalized counter
func (r *likeRepository) CountLikes(ctx context.Context, target domain.LikeTarget, subjectID uint64) (int64, error) {
	t, err := tableFor(target)
	if err != nil {
		return 0, err
	}
	var count int64
	err = r.db.WithContext(ctx).Model(t.likeModel).Where(t.subjectColumn+" = ?", subjectID).Count(&count).Error
	return count, err
}
