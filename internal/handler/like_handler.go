package handler

import (
	"context"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// LikeHandler handles like/unlike requests for articles and comments
type LikeHandler struct {
	service service.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

// LikeArticle handles POST /api/v1/articles/:id/like
// @Summary Like a published article
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse{data=domain.LikeResult}
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse "already liked or not published"
// @Router /articles/{id}/like [post]
func (h *LikeHandler) LikeArticle(c *gin.Context) {
	h.apply(c, "article", h.service.LikeArticle)
}

// UnlikeArticle handles DELETE /api/v1/articles/:id/like
// @Summary Remove a like from an article
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse{data=domain.LikeResult}
// @Failure 404 {object} common.APIResponse "article missing or not liked"
// @Router /articles/{id}/like [delete]
func (h *LikeHandler) UnlikeArticle(c *gin.Context) {
	h.apply(c, "article", h.service.UnlikeArticle)
}

// ListArticleLikers handles GET /api/v1/articles/:id/likers
// @Summary List users who liked an article, newest first
// @Tags likes
// @Produce json
// @Param id path int true "article ID"
// @Param page query int false "page (default 1)"
// @Param limit query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.LikersResponse}
// @Failure 404 {object} common.APIResponse
// @Router /articles/{id}/likers [get]
func (h *LikeHandler) ListArticleLikers(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	resp, err := h.service.ListArticleLikers(c.Request.Context(), middleware.GetActor(c), id,
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", domain.DefaultPageSize))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, resp)
}

// LikeComment handles POST /api/v1/comments/:id/like
// @Summary Like a comment
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "comment ID"
// @Success 200 {object} common.APIResponse{data=domain.LikeResult}
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /comments/{id}/like [post]
func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.apply(c, "comment", h.service.LikeComment)
}

// UnlikeComment handles DELETE /api/v1/comments/:id/like
// @Summary Remove a like from a comment
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "comment ID"
// @Success 200 {object} common.APIResponse{data=domain.LikeResult}
// @Failure 404 {object} common.APIResponse
// @Router /comments/{id}/like [delete]
func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	h.apply(c, "comment", h.service.UnlikeComment)
}

type likeAction func(ctx context.Context, actor *domain.Actor, id uint64) (*domain.LikeResult, error)

func (h *LikeHandler) apply(c *gin.Context, label string, action likeAction) {
	id, ok := paramID(c, "id", label)
	if !ok {
		return
	}

	result, err := action(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, result)
}
