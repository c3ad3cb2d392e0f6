package migration

import (
	"testing"

	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRun_CreatesTables(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))
	// idempotent
	require.NoError(t, Run(db))

	for _, table := range []string{"buildings", "articles", "article_likes", "comments", "comment_likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&domain.ArticleLike{}, "uk_article_likes_article_user"))
	assert.True(t, db.Migrator().HasIndex(&domain.CommentLike{}, "uk_comment_likes_comment_user"))
}

func TestSeedDemo_OnlyWhenEmpty(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))

	require.NoError(t, SeedDemo(db))
	require.NoError(t, SeedDemo(db))

	var count int64
	db.Model(&domain.Article{}).Count(&count)
	assert.Equal(t, int64(3), count)

	var published int64
	db.Model(&domain.Article{}).Where("status = ? AND published_at IS NOT NULL", domain.StatusPublished).Count(&published)
	assert.Equal(t, int64(3), published)
}
