package routes

import (
	"github.com/buildlore/heritage-backend/internal/handler"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under /api/v1
type Handlers struct {
	Article  *handler.ArticleHandler
	Like     *handler.LikeHandler
	Comment  *handler.CommentHandler
	Building *handler.BuildingHandler
}

// Setup configures all API routes. writeLimit guards like and comment writes
// and runs after authentication so it can key on the user.
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager, writeLimit gin.HandlerFunc) {
	api := router.Group("/api/v1")

	optionalAuth := middleware.OptionalJWTAuth(jwtManager)
	auth := middleware.JWTAuth(jwtManager)
	admin := middleware.RequireAdmin()

	// Articles
	articles := api.Group("/articles")
	articles.GET("", optionalAuth, h.Article.ListArticles)
	articles.GET("/featured", h.Article.ListFeatured)
	articles.GET("/mine", auth, h.Article.ListMine)
	articles.POST("", auth, h.Article.CreateArticle)
	articles.GET("/:id", optionalAuth, h.Article.GetArticle)
	articles.PUT("/:id", auth, h.Article.UpdateArticle)
	articles.DELETE("/:id", auth, h.Article.DeleteArticle)
	articles.POST("/:id/submit", auth, h.Article.SubmitForReview)
	articles.POST("/:id/review", auth, admin, h.Article.ReviewArticle)
	articles.POST("/:id/featured", auth, admin, h.Article.ToggleFeatured)
	articles.POST("/:id/media", auth, h.Article.UploadMedia)

	// Engagement
	articles.POST("/:id/like", auth, writeLimit, h.Like.LikeArticle)
	articles.DELETE("/:id/like", auth, writeLimit, h.Like.UnlikeArticle)
	articles.GET("/:id/likers", optionalAuth, h.Like.ListArticleLikers)

	// Comments
	articles.GET("/:id/comments", optionalAuth, h.Comment.ListComments)
	comments := api.Group("/comments")
	comments.POST("", auth, writeLimit, h.Comment.CreateComment)
	comments.GET("/:id/replies", optionalAuth, h.Comment.ListReplies)
	comments.DELETE("/:id", auth, h.Comment.DeleteComment)
	comments.POST("/:id/like", auth, writeLimit, h.Like.LikeComment)
	comments.DELETE("/:id/like", auth, writeLimit, h.Like.UnlikeComment)
	comments.POST("/:id/pin", auth, admin, h.Comment.TogglePin)

	// Buildings
	buildings := api.Group("/buildings")
	buildings.GET("", h.Building.ListBuildings)
	buildings.GET("/mine", auth, h.Building.ListMine)
	buildings.GET("/categories", h.Building.ListCategories)
	buildings.GET("/tags", h.Building.ListTags)
	buildings.POST("", auth, h.Building.CreateBuilding)
	buildings.GET("/:id", h.Building.GetBuilding)
	buildings.PUT("/:id", auth, h.Building.UpdateBuilding)
	buildings.DELETE("/:id", auth, h.Building.DeleteBuilding)
	buildings.POST("/:id/image", auth, h.Building.UploadImage)
	buildings.GET("/:id/model", auth, h.Building.GetModel)
	buildings.POST("/:id/model", auth, h.Building.UploadModel)
	buildings.DELETE("/:id/model", auth, h.Building.DeleteModel)
	buildings.PUT("/:id/json", auth, h.Building.UpdateModelJSON)
}
