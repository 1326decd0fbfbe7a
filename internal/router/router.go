package router

import (
	"net/http"

	"github.com/cravings-app/cravings-backend/config"
	"github.com/cravings-app/cravings-backend/internal/app/controller"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bucket names for the rate limiter; they also label the rate_limited metric.
const (
	bucketResetRequest = "reset_request"
	bucketResetConfirm = "reset_confirm"
)

type Router struct {
	passwordResetController *controller.PasswordResetController
	authController          *controller.AuthController
	aiController            *controller.AIController
	uploadController        *controller.UploadController
	authMiddleware          *middleware.AuthMiddleware
	rateLimiter             *middleware.RateLimiter
	config                  *config.Config
}

func NewRouter(
	passwordResetController *controller.PasswordResetController,
	authController *controller.AuthController,
	aiController *controller.AIController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		passwordResetController: passwordResetController,
		authController:          authController,
		aiController:            aiController,
		uploadController:        uploadController,
		authMiddleware:          authMiddleware,
		rateLimiter:             rateLimiter,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))
	router.Use(middleware.Preflight())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "CRAVINGS API is running",
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			middleware.GetLoggerFromContext(c).Warn("Readiness check failed", map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.setupPasswordResetRoutes(router)
	r.setupAIRoutes(router)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func (r *Router) setupPasswordResetRoutes(router *gin.Engine) {
	rl := r.rateLimiter
	if !r.config.RateLimit.Enabled {
		rl = nil
	}
	window := r.config.RateLimit.Window

	router.POST("/send-reset-code",
		rl.Limit(bucketResetRequest, middleware.Limit{Requests: r.config.RateLimit.ResetRequests, Window: window},
			middleware.ByJSONEmail, middleware.ByIP),
		r.passwordResetController.SendResetCode,
	)
	router.POST("/reset-password",
		rl.Limit(bucketResetConfirm, middleware.Limit{Requests: r.config.RateLimit.ResetConfirms, Window: window},
			middleware.ByIP),
		r.passwordResetController.ResetPassword,
	)
}

func (r *Router) setupAIRoutes(router *gin.Engine) {
	ai := router.Group("/")
	ai.Use(r.authMiddleware.Authenticate())
	{
		ai.POST("/process-craving", r.aiController.ProcessCraving)
		ai.POST("/validate-community", r.aiController.ValidateCommunity)
		ai.POST("/screen-recipe", r.aiController.ScreenRecipe)
		ai.GET("/screenings", r.aiController.ListScreenings)
	}
}
