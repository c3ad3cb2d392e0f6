package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildlore/heritage-backend/internal/app"
	"github.com/buildlore/heritage-backend/internal/config"
	"github.com/buildlore/heritage-backend/internal/database"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/migration"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/jwt"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/buildlore/heritage-backend/pkg/markdown"
	pkgredis "github.com/buildlore/heritage-backend/pkg/redis"
	"github.com/buildlore/heritage-backend/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Heritage Backend API
// @version         1.0
// @description     Heritage article content backend: lifecycle, engagement and queries.

// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	// .env.<env>.local > .env.<env> > .env.local > .env; OS env vars always win
	env, loaded := config.LoadDotEnv()
	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()
	if len(loaded) > 0 {
		log.Info().Strs("files", loaded).Msg("loaded env files")
	}

	configPath := getConfigPath(env)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedDemo(db); err != nil {
			log.Warn().Err(err).Msg("demo seed failed")
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			// rate limiting is the only consumer, run without it
			log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var media service.MediaStore
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("object storage unavailable, media uploads disabled")
		} else {
			media = s3Client
		}
	}

	readLimit := middleware.DefaultRateLimitConfig()
	readLimit.RequestsPerMinute = cfg.RateLimit.RequestsPerMin
	writeLimit := middleware.WriteRateLimitConfig()
	writeLimit.RequestsPerMinute = cfg.RateLimit.WritesPerMin

	router := app.NewRouter(app.Deps{
		DB:           db,
		JWT:          jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn),
		Redis:        redisClient,
		Media:        media,
		Rewriter:     markdown.NewURLRewriter(cfg.Site.BaseURL, cfg.Site.OldDomains),
		AllowOrigins: config.SplitAndTrim(cfg.CORS.AllowOrigins, ","),
		RateLimit:    cfg.RateLimit.Enabled && !cfg.IsDevelopment(),
		ReadLimit:    readLimit,
		WriteLimit:   writeLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go observeDBPool(ctx, db.DB)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

// getConfigPath returns configs/config.<env>.yaml unless CONFIG_PATH is set
func getConfigPath(env string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
