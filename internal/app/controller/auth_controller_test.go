package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/cravings-app/cravings-backend/internal/app/repository"
	"github.com/cravings-app/cravings-backend/internal/app/service"
	"github.com/cravings-app/cravings-backend/internal/db"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB := db.SetupTestDB(t)
	authService := service.NewAuthService(repository.NewUserRepository(testDB), testJWTSecret, time.Hour)
	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	return router
}

func TestAuthController_RegisterLoginMe(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSON(router, http.MethodPost, "/register", gin.H{
		"email":        "cook@example.com",
		"password":     "Abc123!@",
		"display_name": "Cook",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "cook@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = performJSON(router, http.MethodPost, "/login", gin.H{"email": "cook@example.com", "password": "Abc123!@"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["access_token"].(string)

	w = performJSON(router, http.MethodGet, "/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Cook", me["display_name"])
}

func TestAuthController_RegisterErrors(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSON(router, http.MethodPost, "/register", gin.H{"email": "cook@example.com", "password": "Abc123!@"})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{"duplicate", gin.H{"email": "COOK@example.com", "password": "Abc123!@"}, http.StatusConflict, "AUTH_EMAIL_EXISTS"},
		{"weak password", gin.H{"email": "new@example.com", "password": "password"}, http.StatusBadRequest, "VALIDATION_WEAK_PASSWORD"},
		{"bad email", gin.H{"email": "nope", "password": "Abc123!@"}, http.StatusBadRequest, "VALIDATION_INVALID_FORMAT"},
		{"missing password", gin.H{"email": "new@example.com"}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/register", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, w)["code"])
		})
	}
}

func TestAuthController_LoginInvalidCredentials(t *testing.T) {
	router := setupAuthControllerTest(t)
	performJSON(router, http.MethodPost, "/register", gin.H{"email": "cook@example.com", "password": "Abc123!@"})

	w := performJSON(router, http.MethodPost, "/login", gin.H{"email": "cook@example.com", "password": "Wrong123!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", decodeBody(t, w)["code"])
}

func TestAuthController_MeRequiresToken(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSON(router, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
