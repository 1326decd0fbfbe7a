package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cravings-app/cravings-backend/internal/app/service"
	apperrors "github.com/cravings-app/cravings-backend/internal/errors"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/cravings-app/cravings-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Known and unknown emails get the same reply.
const resetCodeRequestedMessage = "If an account exists, a code will be sent."

type PasswordResetController struct {
	resetService service.PasswordResetService
}

func NewPasswordResetController(resetService service.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{resetService: resetService}
}

type SendResetCodeRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// SendResetCode issues a one-time code to the account's email
// POST /send-reset-code
func (ctrl *PasswordResetController) SendResetCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset code request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	err := ctrl.resetService.IssueCode(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": resetCodeRequestedMessage,
		})
	case errors.Is(err, service.ErrEmailRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Email is required")
	case errors.Is(err, service.ErrMailDelivery):
		log.Error("Reset code email not delivered", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "Failed to send reset code email")
	default:
		log.Error("Failed to issue reset code", err)
		apperrors.InternalError(c, "")
	}
}

// ResetPassword consumes a code and sets a new password
// POST /reset-password
func (ctrl *PasswordResetController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	err := ctrl.resetService.VerifyAndReset(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Password updated successfully",
		})
	case errors.Is(err, service.ErrResetFieldsRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Email, code, and new password are required")
	case errors.Is(err, service.ErrWeakPassword):
		apperrors.BadRequest(c, apperrors.ValidationWeakPassword, weakPasswordDetail(err))
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid or expired code")
	case errors.Is(err, service.ErrAccountNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	default:
		log.Error("Password reset failed", err)
		apperrors.InternalError(c, "")
	}
}

const weakPasswordMessage = "Password must be 8 to 72 bytes long and include uppercase and lowercase letters, a number, and a special character"

// weakPasswordDetail appends the failed rules to the policy summary.
func weakPasswordDetail(err error) string {
	var policyErr *util.PolicyError
	if errors.As(err, &policyErr) && len(policyErr.Missing) > 0 {
		return fmt.Sprintf("%s (missing: %s)", weakPasswordMessage, strings.Join(policyErr.Missing, ", "))
	}
	return weakPasswordMessage
}
