package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cors "github.com/itsjamie/gin-cors"
)

// CORS allows browser clients from the configured origins. "*" allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := strings.Join(allowedOrigins, ", ")
	if origins == "" {
		origins = "*"
	}
	return cors.Middleware(cors.Config{
		Origins:         origins,
		Methods:         "GET, PUT, POST, DELETE, PATCH, OPTIONS",
		RequestHeaders:  "Origin, Authorization, Content-Type, Content-Length, X-Client-Info, Apikey",
		ExposedHeaders:  "X-Request-Id",
		MaxAge:          12 * time.Hour,
		Credentials:     false,
		ValidateHeaders: false,
	})
}

// Preflight answers any OPTIONS request that reached it with an empty 200.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
