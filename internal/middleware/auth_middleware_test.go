package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cravings-app/cravings-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", NewAuthMiddleware(testJWTSecret).Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email})
	})
	return router
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	valid, err := util.GenerateAccessToken(7, "cook@example.com", testJWTSecret, 15*time.Minute)
	require.NoError(t, err)
	expired, err := util.GenerateAccessToken(7, "cook@example.com", testJWTSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := util.GenerateAccessToken(7, "cook@example.com", "other-secret", 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, `"user_id":7`},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, `"email":"cook@example.com"`},
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"bad format", "Token " + valid, http.StatusUnauthorized, "AUTH_TOKEN_INVALID"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "AUTH_TOKEN_EXPIRED"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "AUTH_TOKEN_INVALID"},
	}

	router := setupAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
