package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq int64

// setupTestDB opens a private shared-cache in-memory database. A single
// connection serialises transactions the way row locks would on MySQL.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&domain.Building{}, &domain.Article{}, &domain.ArticleLike{}, &domain.Comment{}, &domain.CommentLike{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedArticle(t *testing.T, db *gorm.DB, author string, status domain.ArticleStatus, mutate ...func(*domain.Article)) *domain.Article {
	t.Helper()
	a := &domain.Article{Title: "Hall of Supreme Harmony", Content: "Built in 1406.", AuthorID: author}
	a.ApplyStatus(status, time.Now().UTC())
	for _, m := range mutate {
		m(a)
	}
	if err := NewArticleRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return a
}

func seedBuilding(t *testing.T, db *gorm.DB, creator, name, category, tags string) *domain.Building {
	t.Helper()
	b := &domain.Building{
		Name:        name,
		Description: "Timber frame on a stone base.",
		Address:     "Beijing",
		Category:    category,
		Tags:        tags,
		CreatorID:   creator,
	}
	if err := NewBuildingRepository(db).Create(context.Background(), b); err != nil {
		t.Fatalf("failed to seed building: %v", err)
	}
	return b
}
