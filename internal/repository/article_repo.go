package repository

import (
	"context"
	"errors"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// ArticleRepository persists articles. Counter columns are never written here
// except through atomic expressions.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	FindByID(ctx context.Context, id uint64) (*domain.Article, error)
	// UpdateIfStatus applies updates only while the row still has the expected status.
	// It reports false when the row changed underneath (or vanished).
	UpdateIfStatus(ctx context.Context, id uint64, expected domain.ArticleStatus, updates map[string]interface{}) (bool, error)
	IncrementViewCount(ctx context.Context, id uint64) (bool, error)
	ToggleFeatured(ctx context.Context, id uint64) (bool, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// FindByID returns common.ErrArticleNotFound when no row matches
func (r *articleRepository) FindByID(ctx context.Context, id uint64) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) UpdateIfStatus(ctx context.Context, id uint64, expected domain.ArticleStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementViewCount bumps view_count only for published rows
func (r *articleRepository) IncrementViewCount(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ? AND status = ?", id, domain.StatusPublished).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *articleRepository) ToggleFeatured(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("is_featured", gorm.Expr("NOT is_featured"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the article with its comments and every like that points at either
func (r *articleRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&domain.Comment{}).Select("id").Where("article_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&domain.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&domain.ArticleLike{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.Article{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrArticleNotFound
		}
		return nil
	})
}

func (r *articleRepository) List(ctx context.Context, f domain.ArticleFilter) ([]*domain.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Article{})

	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if f.Tag != "" {
		query = query.Where("LOWER(tags) LIKE ? ESCAPE '!'", containsPattern(f.Tag))
	}
	if f.AuthorID != "" {
		query = query.Where("author_id = ?", f.AuthorID)
	}
	if f.BuildingID != nil {
		query = query.Where("building_id = ?", *f.BuildingID)
	}
	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}
	if f.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		query = query.Where("created_at <= ?", *f.CreatedTo)
	}
	if f.CreatedBefore != nil {
		query = query.Where("created_at < ?", *f.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	if f.FeaturedFirst {
		order = "is_featured DESC, " + order
	}

	var articles []*domain.Article
	err := query.Order(order).Offset(f.Offset).Limit(f.Limit).Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
