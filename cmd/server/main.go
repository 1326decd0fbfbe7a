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

	"github.com/cravings-app/cravings-backend/config"
	"github.com/cravings-app/cravings-backend/internal/app/controller"
	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/app/service"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/cravings-app/cravings-backend/internal/metrics"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/cravings-app/cravings-backend/internal/router"
	"github.com/cravings-app/cravings-backend/internal/scheduler"
	"github.com/cravings-app/cravings-backend/internal/storage"
	"github.com/cravings-app/cravings-backend/pkg/llm"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/cravings-app/cravings-backend/pkg/mailer"
	"github.com/cravings-app/cravings-backend/pkg/redis"
	"github.com/cravings-app/cravings-backend/pkg/util"
	"github.com/sony/gobreaker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel, logFormat := "info", "json"
	if cfg.Server.Environment == "development" {
		logLevel, logFormat = "debug", "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting CRAVINGS Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
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

	// Redis backs the rate limiter only; without it requests are not limited.
	var counter middleware.WindowCounter
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
		counter = redis.NewCounter(redis.GetClient(), "cravings:")
	}

	ctx := context.Background()

	mail, err := mailer.New(cfg.Mail)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", err)
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", err)
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
		OnStateChange: func(_, to gobreaker.State) {
			metrics.LLMBreakerState.Set(float64(to))
		},
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	codeRepo := repository.NewResetCodeRepository(db.GetDB())
	screeningRepo := repository.NewScreeningRepository(db.GetDB())

	// Initialize services
	passwordResetService := service.NewPasswordResetService(userRepo, codeRepo, mail, service.PasswordResetOptions{
		CodeTTL:   cfg.PasswordReset.CodeTTL,
		CodeSpace: util.ParseCodeSpace(cfg.PasswordReset.CodeSpace),
		MailFrom:  cfg.Mail.From,
	})
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	aiService := service.NewAIService(llmClient, screeningRepo)

	// Scheduler
	cleanup := scheduler.NewResetCodeCleanupScheduler(codeRepo, cfg.PasswordReset.CleanupCron)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start reset code cleanup scheduler", err)
	}
	defer cleanup.Stop()

	// Setup router
	r := router.NewRouter(
		controller.NewPasswordResetController(passwordResetService),
		controller.NewAuthController(authService),
		controller.NewAIController(aiService),
		controller.NewUploadController(s3Storage),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		middleware.NewRateLimiter(counter),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
