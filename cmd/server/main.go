package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stakahashi/machinavi-backend/config"
	"github.com/stakahashi/machinavi-backend/internal/app/controller"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
	"github.com/stakahashi/machinavi-backend/internal/router"
	"github.com/stakahashi/machinavi-backend/internal/scheduler"
	"github.com/stakahashi/machinavi-backend/internal/storage"
	"github.com/stakahashi/machinavi-backend/internal/websocket"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
	"github.com/stakahashi/machinavi-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // 本番は "json"
		EnableColor: true,
	})

	logger.Info("Starting MACHINAVI Admin Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redisはポータルのセッションとトークン失効リストに使う
	// 接続できなくてもサーバーは起動する (該当機能は縮退)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, portal sessions and token blacklist disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// WebSocket hub (管理者への通知配信)
	hub := websocket.NewHub()
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	masterRepo := repository.NewMasterRepository(db.GetDB())
	requestRepo := repository.NewEditRequestRepository(db.GetDB())
	tokenRepo := repository.NewEditTokenRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())
	reportRepo := repository.NewReviewReportRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	storeService := service.NewStoreService(storeRepo, masterRepo)
	masterService := service.NewMasterService(masterRepo)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	editTokenService := service.NewEditTokenService(tokenRepo, storeRepo, notificationService)
	editRequestService := service.NewEditRequestService(
		requestRepo,
		storeRepo,
		masterRepo,
		editTokenService,
		notificationService,
		cfg.Portal.BaseURL,
		cfg.Portal.TokenExpiry,
	)
	matchingService := service.NewMatchingService(db.GetDB(), requestRepo, storeRepo, masterRepo)
	portalService := service.NewOwnerPortalService(tokenRepo, storeRepo, masterRepo, cfg.Portal.SessionExpiry)
	reportService := service.NewReviewReportService(reportRepo, storeRepo, notificationService)

	// S3 storage (確認書類・店舗画像のアップロード)
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	storeController := controller.NewStoreController(storeService)
	masterController := controller.NewMasterController(masterService)
	editRequestController := controller.NewEditRequestController(editRequestService, matchingService, cfg.Portal.PurgeAfterDays)
	editTokenController := controller.NewEditTokenController(editTokenService, cfg.Portal.TokenExpiry, cfg.Portal.BaseURL)
	reportController := controller.NewReviewReportController(reportService)
	notificationController := controller.NewNotificationController(notificationService)
	uploadController := controller.NewUploadController(s3Storage)
	portalController := controller.NewPortalController(portalService)
	wsController := controller.NewWSController(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// 夜間メンテナンス (トークン失効スイープ、却下済み申請の削除)
	maintenance := scheduler.NewMaintenanceScheduler(
		editTokenService,
		editRequestService,
		passwordResetService,
		cfg.Portal.PurgeAfterDays,
	)
	if err := maintenance.Start(); err != nil {
		logger.Fatal("Failed to start maintenance scheduler", err)
	}
	defer maintenance.Stop()

	r := router.NewRouter(
		authController,
		storeController,
		masterController,
		editRequestController,
		editTokenController,
		reportController,
		notificationController,
		uploadController,
		portalController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
