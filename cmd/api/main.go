package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gestion-etudiants-api/api/swagger"
	"github.com/noah-isme/gestion-etudiants-api/internal/handler"
	"github.com/noah-isme/gestion-etudiants-api/internal/middleware"
	"github.com/noah-isme/gestion-etudiants-api/internal/repository"
	"github.com/noah-isme/gestion-etudiants-api/internal/service"
	"github.com/noah-isme/gestion-etudiants-api/pkg/cache"
	"github.com/noah-isme/gestion-etudiants-api/pkg/config"
	"github.com/noah-isme/gestion-etudiants-api/pkg/database"
	"github.com/noah-isme/gestion-etudiants-api/pkg/jobs"
	"github.com/noah-isme/gestion-etudiants-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gestion-etudiants-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gestion-etudiants-api/pkg/middleware/requestid"
)

// @title Gestion Etudiants API
// @version 1.0.0
// @description Student records: etudiants, cours, inscriptions and statistics
// @BasePath /api
// @schemes http

const (
	shutdownTimeout = 10 * time.Second
	invalidationBuf = 64
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Stats.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, redisClient != nil)

	invalidator := service.NewStatsInvalidator(cacheSvc, logr)
	queue := jobs.NewQueue("stats-invalidation", invalidator.Handle, jobs.QueueConfig{
		Workers:    cfg.Stats.InvalidateWorkers,
		BufferSize: invalidationBuf,
		MaxRetries: cfg.Stats.InvalidateRetries,
		RetryDelay: 200 * time.Millisecond,
		Logger:     logr,
	})
	if cacheSvc.Enabled() {
		queue.Start(ctx)
		defer queue.Stop()
		invalidator.Attach(queue)
	}

	validate := service.NewValidator()
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, validate, invalidator, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, validate, invalidator, logr)
	enrollmentSvc := service.NewEnrollmentService(service.EnrollmentServiceDeps{
		Repo:        enrollmentRepo,
		Students:    studentRepo,
		Courses:     courseRepo,
		Validator:   validate,
		Cache:       cacheSvc,
		Invalidator: invalidator,
		Metrics:     metrics,
		CacheTTL:    cfg.Stats.CacheTTL,
		Logger:      logr,
	})
	exportSvc := service.NewExportService(studentRepo, enrollmentRepo, logr)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:            cfg.Auth.JWTSecret,
		Expiration:        cfg.Auth.Expiration,
		Issuer:            "gestion-etudiants-api",
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
	})

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(cacheRepo.Ping)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	var requireAuth gin.HandlerFunc
	handlers := handler.Handlers{
		Students:    handler.NewStudentHandler(studentSvc, exportSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, exportSvc),
		System:      handler.NewSystemHandler(cfg.APIPrefix, metrics, checks, logr),
	}
	if cfg.Auth.Enabled {
		requireAuth = middleware.JWT(authSvc)
		handlers.Auth = handler.NewAuthHandler(authSvc)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, requireAuth)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
