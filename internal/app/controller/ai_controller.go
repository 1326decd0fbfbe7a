package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cravings-app/cravings-backend/internal/app/model"
	"github.com/cravings-app/cravings-backend/internal/app/service"
	apperrors "github.com/cravings-app/cravings-backend/internal/errors"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/cravings-app/cravings-backend/pkg/llm"
	"github.com/gin-gonic/gin"
)

type AIController struct {
	aiService service.AIService
}

func NewAIController(aiService service.AIService) *AIController {
	return &AIController{aiService: aiService}
}

// ProcessCraving suggests recipes or nearby places for a craving
// POST /process-craving
func (ctrl *AIController) ProcessCraving(c *gin.Context) {
	var req model.ProcessCravingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Craving and mode are required")
		return
	}

	result, err := ctrl.aiService.ProcessCraving(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMode), errors.Is(err, service.ErrInvalidProficiency):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		default:
			respondWithLLMError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidateCommunity checks that a community name is food related
// POST /validate-community
func (ctrl *AIController) ValidateCommunity(c *gin.Context) {
	var req model.ValidateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Community name is required")
		return
	}

	result, err := ctrl.aiService.ValidateCommunity(c.Request.Context(), &req)
	if err != nil {
		respondWithLLMError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScreenRecipe checks whether a recipe fits a community category
// POST /screen-recipe
func (ctrl *AIController) ScreenRecipe(c *gin.Context) {
	var req model.ScreenRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Recipe title and community category are required")
		return
	}

	userID, _ := middleware.GetUserID(c)
	result, err := ctrl.aiService.ScreenRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithLLMError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListScreenings returns recent screening decisions for moderators
// GET /screenings?category=Sweet&limit=20
func (ctrl *AIController) ListScreenings(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Category is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	screenings, err := ctrl.aiService.ListScreenings(c.Request.Context(), category, limit)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list screenings", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "screening")
		return
	}
	c.JSON(http.StatusOK, gin.H{"screenings": screenings})
}

func respondWithLLMError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		apperrors.TooManyRequests(c, "Rate limit exceeded, please try again later.")
	case errors.Is(err, llm.ErrPaymentRequired):
		apperrors.RespondWithError(c, http.StatusPaymentRequired, apperrors.PaymentRequired, "Payment required.")
	case errors.Is(err, llm.ErrUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalExternalAPI, "AI service is temporarily unavailable")
	case errors.Is(err, llm.ErrMissingAPIKey):
		apperrors.InternalError(c, "AI gateway is not configured")
	case errors.Is(err, llm.ErrNoJSON):
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "Failed to parse AI response")
	default:
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "AI gateway error")
	}
}
