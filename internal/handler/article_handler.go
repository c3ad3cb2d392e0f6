package handler

import (
	"net/http"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/ginutil"
	"github.com/buildlore/heritage-backend/pkg/markdown"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ArticleHandler handles article HTTP requests
type ArticleHandler struct {
	articles service.ArticleService
	queries  service.ArticleQueryService
	likes    service.LikeService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articles service.ArticleService, queries service.ArticleQueryService, likes service.LikeService) *ArticleHandler {
	return &ArticleHandler{articles: articles, queries: queries, likes: likes}
}

// ListArticles handles GET /api/v1/articles
// @Summary List articles
// @Description Non-admin callers only ever see published articles. Admins may pass status=all.
// @Tags articles
// @Produce json
// @Param status query string false "draft, reviewing, review_failed, published or all (admin only)"
// @Param search query string false "case-insensitive match on title or content"
// @Param tag query string false "tag substring"
// @Param author query string false "author id"
// @Param building query int false "building id"
// @Param featured query bool false "featured flag"
// @Param date_from query string false "YYYY-MM-DD or RFC3339, inclusive"
// @Param date_to query string false "YYYY-MM-DD (whole day) or RFC3339, inclusive"
// @Param sort query string false "latest disables featured-first ordering"
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.ArticlePage}
// @Failure 400 {object} common.APIResponse
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	page, err := h.queries.List(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// ListFeatured handles GET /api/v1/articles/featured
// @Summary List featured articles
// @Tags articles
// @Produce json
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.ArticlePage}
// @Router /articles/featured [get]
func (h *ArticleHandler) ListFeatured(c *gin.Context) {
	page, err := h.queries.ListFeatured(c.Request.Context(),
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "page_size", domain.DefaultPageSize))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// ListMine handles GET /api/v1/articles/mine
// @Summary List my articles in every status
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param status query string false "status filter"
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.ArticlePage}
// @Failure 401 {object} common.APIResponse
// @Router /articles/mine [get]
func (h *ArticleHandler) ListMine(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	page, err := h.queries.ListMine(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// CreateArticle handles POST /api/v1/articles
// @Summary Create an article
// @Description Owners may create in draft or reviewing. Admins may also create published articles.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateArticleRequest true "article"
// @Success 201 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req domain.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.articles.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, article.ToResponse())
}

// GetArticle handles GET /api/v1/articles/:id
// @Summary Get an article
// @Description Records a view for published articles. Unpublished articles are only visible to their owner and admins.
// @Tags articles
// @Produce json
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse{data=domain.ArticleDetail}
// @Failure 404 {object} common.APIResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	article, err := h.articles.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	detail := domain.ArticleDetail{ArticleResponse: article.ToResponse()}
	if html, err := markdown.Render(article.Content); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("article_id", id).Msg("markdown render failed")
	} else {
		detail.ContentHTML = html
	}
	if liked, err := h.likes.IsArticleLiked(c.Request.Context(), actor, id); err == nil {
		detail.IsLiked = liked
	}

	common.SuccessResponse(c, detail)
}

// UpdateArticle handles PUT /api/v1/articles/:id
// @Summary Update an article
// @Description Owners may edit only in draft or review_failed. Admins may change any field in any state.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Param request body domain.UpdateArticleRequest true "changed fields"
// @Success 200 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}
	var req domain.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.articles.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, article.ToResponse())
}

// DeleteArticle handles DELETE /api/v1/articles/:id
// @Summary Delete an article with its likes and comments
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	if err := h.articles.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// SubmitForReview handles POST /api/v1/articles/:id/submit
// @Summary Submit an article for review
// @Description Draft or review_failed moves to reviewing. An admin submitting publishes directly.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /articles/{id}/submit [post]
func (h *ArticleHandler) SubmitForReview(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	article, err := h.articles.SubmitForReview(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, article.ToResponse())
}

// ReviewArticle handles POST /api/v1/articles/:id/review
// @Summary Approve or reject an article under review
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Param request body domain.ReviewRequest true "decision"
// @Success 200 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /articles/{id}/review [post]
func (h *ArticleHandler) ReviewArticle(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}
	var req domain.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.articles.Review(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, article.ToResponse())
}

// ToggleFeatured handles POST /api/v1/articles/:id/featured
// @Summary Flip the featured flag
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Success 200 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /articles/{id}/featured [post]
func (h *ArticleHandler) ToggleFeatured(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	article, err := h.articles.ToggleFeatured(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, article.ToResponse())
}

// UploadMedia handles POST /api/v1/articles/:id/media
// @Summary Upload a cover or content image
// @Tags articles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "article ID"
// @Param kind formData string true "cover or content"
// @Param file formData file true "image file"
// @Success 200 {object} common.APIResponse{data=domain.ArticleResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /articles/{id}/media [post]
func (h *ArticleHandler) UploadMedia(c *gin.Context) {
	id, ok := paramID(c, "id", "article")
	if !ok {
		return
	}

	upload, closer, ok := formFile(c)
	if !ok {
		return
	}
	defer closer.Close()

	kind := service.MediaKind(c.PostForm("kind"))
	article, err := h.articles.AttachMedia(c.Request.Context(), middleware.GetActor(c), id, kind, upload)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, article.ToResponse())
}

// bindListQuery reads the list filters. Malformed paging falls back to the defaults.
func bindListQuery(c *gin.Context) (domain.ArticleListQuery, bool) {
	var q domain.ArticleListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return q, false
	}
	q.Page = ginutil.QueryInt(c, "page", 1)
	q.PageSize = ginutil.QueryInt(c, "page_size", domain.DefaultPageSize)
	return q, true
}
