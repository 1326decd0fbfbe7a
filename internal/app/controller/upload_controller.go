package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/cravings-app/cravings-backend/internal/errors"
	"github.com/cravings-app/cravings-backend/internal/middleware"
	"github.com/cravings-app/cravings-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// Presigner issues direct-upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error)
}

type UploadController struct {
	storage Presigner
}

func NewUploadController(storage Presigner) *UploadController {
	return &UploadController{storage: storage}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // avatars, recipes or communities; defaults to recipes
}

// GeneratePresignedURL returns a presigned S3 PUT URL for an image
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = storage.FolderRecipes
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		case errors.Is(err, storage.ErrInvalidFolder):
			apperrors.BadRequest(c, apperrors.UploadInvalidFolder, "Folder must be avatars, recipes, or communities")
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"folder": folder,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "Failed to generate presigned URL")
		}
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"folder": folder,
		"key":    upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
