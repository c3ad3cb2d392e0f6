package migration

import (
	"fmt"
	"time"

	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table the service owns, parents first
func Models() []interface{} {
	return []interface{}{
		&domain.Building{},
		&domain.Article{},
		&domain.ArticleLike{},
		&domain.Comment{},
		&domain.CommentLike{},
	}
}

// Run creates or updates the schema. Existing rows are never touched.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedDemo inserts a few published articles when the articles table is empty.
// Only used for local development databases.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Article{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	articles := []domain.Article{
		{Title: "Fujian Tulou", Content: "Earthen **round houses** built by Hakka clans.", AuthorID: "demo", Tags: "fujian,earthen", IsFeatured: true},
		{Title: "Hutong courtyards", Content: "Siheyuan layouts around a central court.", AuthorID: "demo", Tags: "beijing,siheyuan"},
		{Title: "Stilt houses of Xiangxi", Content: "Diaojiaolou over the river banks.", AuthorID: "demo", Tags: "hunan,timber"},
	}
	for i := range articles {
		articles[i].ApplyStatus(domain.StatusPublished, now)
	}
	return db.Create(&articles).Error
}
