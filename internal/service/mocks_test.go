package service

import (
	"context"
	"io"

	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// --- Mock ArticleRepository ---

type mockArticleRepo struct {
	mock.Mock
}

func (m *mockArticleRepo) Create(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	if article.ID == 0 {
		article.ID = 1
	}
	return args.Error(0)
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id uint64) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *mockArticleRepo) UpdateIfStatus(ctx context.Context, id uint64, expected domain.ArticleStatus, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, expected, updates)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticleRepo) IncrementViewCount(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticleRepo) ToggleFeatured(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticleRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockArticleRepo) List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Article), args.Get(1).(int64), args.Error(2)
}

// --- Mock LikeRepository ---

type mockLikeRepo struct {
	mock.Mock
}

func (m *mockLikeRepo) Has(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (bool, error) {
	args := m.Called(ctx, target, subjectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepo) Add(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error) {
	args := m.Called(ctx, target, subjectID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLikeRepo) Remove(ctx context.Context, target domain.LikeTarget, subjectID uint64, userID string) (int64, error) {
	args := m.Called(ctx, target, subjectID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLikeRepo) LikedAmong(ctx context.Context, target domain.LikeTarget, userID string, subjectIDs []uint64) (map[uint64]bool, error) {
	args := m.Called(ctx, target, userID, subjectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]bool), args.Error(1)
}

func (m *mockLikeRepo) ListLikers(ctx context.Context, target domain.LikeTarget, subjectID uint64, offset, limit int) ([]domain.Liker, int64, error) {
	args := m.Called(ctx, target, subjectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Liker), args.Get(1).(int64), args.Error(2)
}

func (m *mockLikeRepo) CountLikes(ctx context.Context, target domain.LikeTarget, subjectID uint64) (int64, error) {
	args := m.Called(ctx, target, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CommentRepository ---

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListTopLevel(ctx context.Context, articleID uint64, offset, limit int) ([]*domain.Comment, int64, error) {
	args := m.Called(ctx, articleID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *mockCommentRepo) ListReplies(ctx context.Context, parentID uint64) ([]*domain.Comment, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) CountReplies(ctx context.Context, parentIDs []uint64) (map[uint64]int64, error) {
	args := m.Called(ctx, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]int64), args.Error(1)
}

func (m *mockCommentRepo) DeleteTree(ctx context.Context, id uint64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockCommentRepo) TogglePin(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- Mock BuildingRepository ---

type mockBuildingRepo struct {
	mock.Mock
}

func (m *mockBuildingRepo) Create(ctx context.Context, building *domain.Building) error {
	args := m.Called(ctx, building)
	if building.ID == 0 {
		building.ID = 1
	}
	return args.Error(0)
}

func (m *mockBuildingRepo) FindByID(ctx context.Context, id uint64) (*domain.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *mockBuildingRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBuildingRepo) Update(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockBuildingRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBuildingRepo) List(ctx context.Context, filter domain.BuildingFilter) ([]*domain.Building, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Building), args.Get(1).(int64), args.Error(2)
}

func (m *mockBuildingRepo) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockBuildingRepo) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock MediaStore ---

type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockMediaStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
