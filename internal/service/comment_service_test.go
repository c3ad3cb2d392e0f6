package service

import (
	"context"
	"testing"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	comments *mockCommentRepo
	articles *mockArticleRepo
	likes    *mockLikeRepo
	svc      CommentService
}

func newCommentFixture() *commentFixture {
	f := &commentFixture{
		comments: new(mockCommentRepo),
		articles: new(mockArticleRepo),
		likes:    new(mockLikeRepo),
	}
	f.svc = NewCommentService(f.comments, f.articles, f.likes)
	return f
}

func TestCreateComment(t *testing.T) {
	f := newCommentFixture()
	f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	f.comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	c, err := f.svc.Create(context.Background(), stranger, &domain.CreateCommentRequest{ArticleID: 1, Content: " lovely courtyard "})
	require.NoError(t, err)
	assert.Equal(t, "lovely courtyard", c.Content)
	assert.Equal(t, "stranger", c.AuthorID)
	assert.Nil(t, c.ParentID)
}

func TestCreateComment_Reply(t *testing.T) {
	f := newCommentFixture()
	parentID := uint64(7)
	f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	f.comments.On("FindByID", mock.Anything, parentID).Return(&domain.Comment{ID: 7, ArticleID: 1}, nil)
	f.comments.On("Create", mock.Anything, mock.Anything).Return(nil)

	c, err := f.svc.Create(context.Background(), stranger, &domain.CreateCommentRequest{ArticleID: 1, ParentID: &parentID, Content: "agreed"})
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, parentID, *c.ParentID)
}

func TestCreateComment_ParentOnOtherArticle(t *testing.T) {
	f := newCommentFixture()
	parentID := uint64(7)
	f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	f.comments.On("FindByID", mock.Anything, parentID).Return(&domain.Comment{ID: 7, ArticleID: 2}, nil)

	_, err := f.svc.Create(context.Background(), stranger, &domain.CreateCommentRequest{ArticleID: 1, ParentID: &parentID, Content: "hi"})
	assert.ErrorIs(t, err, common.ErrValidation)
	f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_Rejected(t *testing.T) {
	f := newCommentFixture()
	f.articles.On("FindByID", mock.Anything, uint64(2)).Return(articleIn(domain.StatusDraft), nil)

	_, err := f.svc.Create(context.Background(), nil, &domain.CreateCommentRequest{ArticleID: 2, Content: "x"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = f.svc.Create(context.Background(), stranger, &domain.CreateCommentRequest{ArticleID: 2, Content: "   "})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.Create(context.Background(), stranger, &domain.CreateCommentRequest{ArticleID: 2, Content: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByArticle_Decorates(t *testing.T) {
	f := newCommentFixture()
	f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	comments := []*domain.Comment{{ID: 10, ArticleID: 1, IsTop: true}, {ID: 11, ArticleID: 1}}
	f.comments.On("ListTopLevel", mock.Anything, uint64(1), 0, 10).Return(comments, int64(2), nil)
	f.comments.On("CountReplies", mock.Anything, []uint64{10, 11}).Return(map[uint64]int64{10: 3}, nil)
	f.likes.On("LikedAmong", mock.Anything, domain.LikeTargetComment, "owner", []uint64{10, 11}).
		Return(map[uint64]bool{11: true}, nil)

	page, err := f.svc.ListByArticle(context.Background(), owner, 1, 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ReplyCount)
	assert.False(t, page.Items[0].IsLiked)
	assert.Equal(t, int64(0), page.Items[1].ReplyCount)
	assert.True(t, page.Items[1].IsLiked)
	assert.Nil(t, page.Next)
}

func TestListReplies(t *testing.T) {
	f := newCommentFixture()
	f.comments.On("FindByID", mock.Anything, uint64(10)).Return(&domain.Comment{ID: 10, ArticleID: 1}, nil)
	f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
	f.comments.On("ListReplies", mock.Anything, uint64(10)).Return([]*domain.Comment{{ID: 12, ArticleID: 1}}, nil)
	f.comments.On("CountReplies", mock.Anything, []uint64{12}).Return(map[uint64]int64{}, nil)
	f.likes.On("LikedAmong", mock.Anything, domain.LikeTargetComment, "", []uint64{12}).Return(map[uint64]bool{}, nil)

	replies, err := f.svc.ListReplies(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, uint64(12), replies[0].ID)
}

func TestDeleteComment_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   *domain.Actor
		allowed bool
	}{
		{"comment author", &domain.Actor{ID: "commenter"}, true},
		{"article owner", owner, true},
		{"admin", admin, true},
		{"stranger", stranger, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommentFixture()
			f.comments.On("FindByID", mock.Anything, uint64(10)).Return(&domain.Comment{ID: 10, ArticleID: 1, AuthorID: "commenter"}, nil)
			f.articles.On("FindByID", mock.Anything, uint64(1)).Return(articleIn(domain.StatusPublished), nil)
			f.comments.On("DeleteTree", mock.Anything, uint64(10)).Return(2, nil)

			err := f.svc.Delete(context.Background(), tt.actor, 10)
			if tt.allowed {
				assert.NoError(t, err)
				f.comments.AssertCalled(t, "DeleteTree", mock.Anything, uint64(10))
			} else {
				assert.ErrorIs(t, err, common.ErrPermission)
				f.comments.AssertNotCalled(t, "DeleteTree", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTogglePin(t *testing.T) {
	f := newCommentFixture()

	_, err := f.svc.TogglePin(context.Background(), owner, 10)
	assert.ErrorIs(t, err, common.ErrPermission)

	f.comments.On("TogglePin", mock.Anything, uint64(99)).Return(false, nil)
	_, err = f.svc.TogglePin(context.Background(), admin, 99)
	assert.ErrorIs(t, err, common.ErrNotFound)

	f.comments.On("TogglePin", mock.Anything, uint64(10)).Return(true, nil)
	f.comments.On("FindByID", mock.Anything, uint64(10)).Return(&domain.Comment{ID: 10, IsTop: true}, nil)
	c, err := f.svc.TogglePin(context.Background(), admin, 10)
	require.NoError(t, err)
	assert.True(t, c.IsTop)
}
