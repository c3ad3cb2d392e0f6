package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLikeService struct {
	mock.Mock
}

func (m *mockLikeService) result(args mock.Arguments) (*domain.LikeResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LikeResult), args.Error(1)
}

func (m *mockLikeService) LikeArticle(ctx context.Context, actor *domain.Actor, id uint64) (*domain.LikeResult, error) {
	return m.result(m.Called(ctx, actor, id))
}

func (m *mockLikeService) UnlikeArticle(ctx context.Context, actor *domain.Actor, id uint64) (*domain.LikeResult, error) {
	return m.result(m.Called(ctx, actor, id))
}

func (m *mockLikeService) IsArticleLiked(ctx context.Context, actor *domain.Actor, id uint64) (bool, error) {
	args := m.Called(ctx, actor, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeService) ListArticleLikers(ctx context.Context, actor *domain.Actor, id uint64, page, limit int) (*domain.LikersResponse, error) {
	args := m.Called(ctx, actor, id, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LikersResponse), args.Error(1)
}

func (m *mockLikeService) LikeComment(ctx context.Context, actor *domain.Actor, id uint64) (*domain.LikeResult, error) {
	return m.result(m.Called(ctx, actor, id))
}

func (m *mockLikeService) UnlikeComment(ctx context.Context, actor *domain.Actor, id uint64) (*domain.LikeResult, error) {
	return m.result(m.Called(ctx, actor, id))
}

func (m *mockLikeService) IsCommentLiked(ctx context.Context, actor *domain.Actor, id uint64) (bool, error) {
	args := m.Called(ctx, actor, id)
	return args.Bool(0), args.Error(1)
}

// likeRouter mounts the handler behind a stub that authenticates as userID
func likeRouter(svc *mockLikeService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLikeHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/articles/:id/like", h.LikeArticle)
	r.DELETE("/comments/:id/like", h.UnlikeComment)
	r.GET("/articles/:id/likers", h.ListArticleLikers)
	return r
}

func serve(r *gin.Engine, method, target string) (*httptest.ResponseRecorder, common.APIResponse) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	var resp common.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestLikeArticle_PassesActor(t *testing.T) {
	svc := new(mockLikeService)
	actor := &domain.Actor{ID: "u1"}
	svc.On("LikeArticle", mock.Anything, actor, uint64(7)).Return(&domain.LikeResult{LikeCount: 4, Liked: true}, nil)

	w, resp := serve(likeRouter(svc, "u1"), http.MethodPost, "/articles/7/like")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, common.CodeOK, resp.Code)
	assert.Contains(t, w.Body.String(), `"like_count":4`)
}

func TestLikeArticle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate", common.ErrAlreadyLiked, http.StatusConflict, common.CodeAlreadyExists},
		{"not published", common.ErrArticleNotPublished, http.StatusConflict, common.CodeInvalidState},
		{"missing", common.ErrArticleNotFound, http.StatusNotFound, common.CodeNotFound},
		{"anonymous", common.ErrLoginRequired, http.StatusUnauthorized, common.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockLikeService)
			svc.On("LikeArticle", mock.Anything, mock.Anything, uint64(1)).Return(nil, tt.err)

			w, resp := serve(likeRouter(svc, "u1"), http.MethodPost, "/articles/1/like")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestLikeHandler_BadID(t *testing.T) {
	svc := new(mockLikeService)
	r := likeRouter(svc, "u1")

	for _, target := range []string{"/articles/abc/like", "/articles/0/like", "/articles/-1/like"} {
		w, resp := serve(r, http.MethodPost, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, common.CodeValidation, resp.Code)
	}
	svc.AssertNotCalled(t, "LikeArticle", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnlikeComment(t *testing.T) {
	svc := new(mockLikeService)
	svc.On("UnlikeComment", mock.Anything, mock.Anything, uint64(3)).Return(&domain.LikeResult{LikeCount: 0}, nil)

	w, _ := serve(likeRouter(svc, "u1"), http.MethodDelete, "/comments/3/like")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListArticleLikers_Anonymous(t *testing.T) {
	svc := new(mockLikeService)
	svc.On("ListArticleLikers", mock.Anything, (*domain.Actor)(nil), uint64(2), 3, 5).
		Return(&domain.LikersResponse{Likers: []domain.Liker{}, Page: 3, Limit: 5}, nil)

	w, _ := serve(likeRouter(svc, ""), http.MethodGet, "/articles/2/likers?page=3&limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"likers":[]`))
}

func TestBindJSON_RejectsUnknownFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"decision":"approve","extra":true}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req domain.ReviewRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
