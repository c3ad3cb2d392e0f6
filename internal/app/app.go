package app

import (
	"net/http"
	"time"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/handler"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/repository"
	"github.com/buildlore/heritage-backend/internal/routes"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/jwt"
	"github.com/buildlore/heritage-backend/pkg/markdown"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/buildlore/heritage-backend/docs"
)

// freeTextParams are list filters holding user search terms. They only ever
// reach SQL as bound arguments.
var freeTextParams = []string{"search", "tag", "author", "category", "creator"}

// Deps are the external resources the HTTP server is built from.
// Redis and Media are optional.
type Deps struct {
	DB           *gorm.DB
	JWT          *jwt.Manager
	Redis        *redis.Client
	Media        service.MediaStore
	Rewriter     *markdown.URLRewriter
	AllowOrigins []string
	RateLimit    bool
	ReadLimit    middleware.RateLimitConfig
	WriteLimit   middleware.RateLimitConfig
}

// NewRouter wires repositories, services and handlers into a gin engine
func NewRouter(d Deps) *gin.Engine {
	articleRepo := repository.NewArticleRepository(d.DB)
	likeRepo := repository.NewLikeRepository(d.DB)
	commentRepo := repository.NewCommentRepository(d.DB)
	buildingRepo := repository.NewBuildingRepository(d.DB)

	media := service.NewMediaService(d.Media)
	articleSvc := service.NewArticleService(articleRepo, buildingRepo, media, d.Rewriter)
	querySvc := service.NewArticleQueryService(articleRepo)
	likeSvc := service.NewLikeService(likeRepo, articleRepo, commentRepo)
	commentSvc := service.NewCommentService(commentRepo, articleRepo, likeRepo)
	buildingSvc := service.NewBuildingService(buildingRepo, media)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer(freeTextParams...))
	router.Use(cors.New(corsConfig(d.AllowOrigins)))

	writeLimit := func(c *gin.Context) { c.Next() }
	if d.RateLimit && d.Redis != nil {
		router.Use(middleware.RateLimit(d.Redis, d.ReadLimit))
		writeLimit = middleware.RateLimit(d.Redis, d.WriteLimit)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(d.DB, d.Redis))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Handlers{
		Article:  handler.NewArticleHandler(articleSvc, querySvc, likeSvc),
		Like:     handler.NewLikeHandler(likeSvc),
		Comment:  handler.NewCommentHandler(commentSvc),
		Building: handler.NewBuildingHandler(buildingSvc),
	}, d.JWT, writeLimit)

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "route not found", nil)
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "down"
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				// rate limiting fails open, so redis is not fatal
				checks["redis"] = "degraded"
			}
		}

		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "heritage-backend",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	}
}
