package handler

import (
	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments handles GET /api/v1/articles/:id/comments
// @Summary List top-level comments, pinned first
// @Tags comments
// @Produce json
// @Param id path int true "article ID"
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.CommentPage}
// @Failure 404 {object} common.APIResponse
// @Router /articles/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	articleID, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	page, err := h.service.ListByArticle(c.Request.Context(), middleware.GetActor(c), articleID,
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "page_size", domain.DefaultPageSize))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// ListReplies handles GET /api/v1/comments/:id/replies
// @Summary List direct replies to a comment, oldest first
// @Tags comments
// @Produce json
// @Param id path int true "comment ID"
// @Success 200 {object} common.APIResponse{data=[]domain.CommentResponse}
// @Failure 404 {object} common.APIResponse
// @Router /comments/{id}/replies [get]
func (h *CommentHandler) ListReplies(c *gin.Context) {
	id, ok := paramID(c, "id", "comment")
	if !ok {
		return
	}

	replies, err := h.service.ListReplies(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, replies)
}

// CreateComment handles POST /api/v1/comments
// @Summary Comment on an article or reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateCommentRequest true "comment"
// @Success 201 {object} common.APIResponse{data=domain.Comment}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req domain.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, comment)
}

// DeleteComment handles DELETE /api/v1/comments/:id
// @Summary Delete a comment and its replies
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "comment ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id", "comment")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// TogglePin handles POST /api/v1/comments/:id/pin
// @Summary Pin or unpin a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "comment ID"
// @Success 200 {object} common.APIResponse{data=domain.Comment}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /comments/{id}/pin [post]
func (h *CommentHandler) TogglePin(c *gin.Context) {
	id, ok := paramID(c, "id", "comment")
	if !ok {
		return
	}

	comment, err := h.service.TogglePin(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, comment)
}
