package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// BuildingRepository persists building records
type BuildingRepository interface {
	Create(ctx context.Context, building *domain.Building) error
	FindByID(ctx context.Context, id uint64) (*domain.Building, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, id uint64, updates map[string]interface{}) error
	// Delete removes the building and detaches the articles that referenced it
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, filter domain.BuildingFilter) ([]*domain.Building, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
}

type buildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) Create(ctx context.Context, building *domain.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

// FindByID returns common.ErrBuildingNotFound when no row matches
func (r *buildingRepository) FindByID(ctx context.Context, id uint64) (*domain.Building, error) {
	var building domain.Building
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&building).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrBuildingNotFound
		}
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Building{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *buildingRepository) Update(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Building{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *buildingRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Article{}).
			Where("building_id = ?", id).
			UpdateColumn("building_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.Building{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrBuildingNotFound
		}
		return nil
	})
}

func (r *buildingRepository) List(ctx context.Context, f domain.BuildingFilter) ([]*domain.Building, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Building{})

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(address) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern)
	}
	if f.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Tag != "" {
		query = query.Where("LOWER(tags) LIKE ? ESCAPE '!'", containsPattern(f.Tag))
	}
	if f.CreatorID != "" {
		query = query.Where("creator_id = ?", f.CreatorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var buildings []*domain.Building
	err := query.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&buildings).Error
	if err != nil {
		return nil, 0, err
	}
	return buildings, total, nil
}

// Categories returns the distinct non-empty categories in name order
func (r *buildingRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&domain.Building{}).
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Tags returns every distinct tag across buildings, sorted
func (r *buildingRepository) Tags(ctx context.Context) ([]string, error) {
	var rows []string
	err := r.db.WithContext(ctx).Model(&domain.Building{}).
		Where("tags IS NOT NULL AND tags <> ''").
		Pluck("tags", &rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	tags := []string{}
	for _, row := range rows {
		for _, tag := range domain.SplitList(row) {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}
