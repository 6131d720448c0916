package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-classnav-api/api/swagger"
	"github.com/noah-isme/sma-classnav-api/internal/handler"
	"github.com/noah-isme/sma-classnav-api/internal/models"
	"github.com/noah-isme/sma-classnav-api/internal/repository"
	"github.com/noah-isme/sma-classnav-api/internal/router"
	"github.com/noah-isme/sma-classnav-api/internal/service"
	"github.com/noah-isme/sma-classnav-api/pkg/cache"
	"github.com/noah-isme/sma-classnav-api/pkg/config"
	"github.com/noah-isme/sma-classnav-api/pkg/database"
	"github.com/noah-isme/sma-classnav-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Class Navigation API
// @version 1.0.0
// @description Sidebar navigation, breadcrumbs and class exports for the staff portal
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Navigation.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, navigation cache disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Navigation.CacheTTL, logr, redisClient != nil)

	navSvc := service.NewNavigationService(service.NavigationServiceParams{
		Classes:  repository.NewClassRepository(db),
		Profiles: repository.NewUserRepository(db),
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		Config: service.NavigationServiceConfig{
			OwnerKey:      models.OwnerKey(cfg.Navigation.OwnerKey),
			CacheTTL:      cfg.Navigation.CacheTTL,
			DefaultAvatar: cfg.Navigation.DefaultAvatar,
		},
	})
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})

	params := router.Params{
		Config:     cfg,
		Logger:     logr,
		Tokens:     authSvc,
		Navigation: handler.NewNavigationHandler(navSvc, validator.New()),
		Metrics:    handler.NewMetricsHandler(metricsSvc, readinessChecks(db, redisClient)),
	}
	if metricsSvc != nil {
		params.Requests = metricsSvc
	}
	r := router.New(params)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logr.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("could not stop server gracefully", zap.Error(err))
			_ = srv.Close()
		}
	}
}

func readinessChecks(db *sqlx.DB, redisClient redis.UniversalClient) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
