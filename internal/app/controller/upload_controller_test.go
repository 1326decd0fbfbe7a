package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cravings-app/cravings-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	folder string
	err    error
}

func (f *fakePresigner) PresignUpload(_ context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error) {
	f.folder = folder
	if f.err != nil {
		return nil, f.err
	}
	if err := storage.ValidateUpload(contentType, folder); err != nil {
		return nil, err
	}
	key := folder + "/abc.png"
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.example.com/" + key + "?sig=1",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func setupUploadControllerTest(presigner *fakePresigner) *gin.Engine {
	ctrl := NewUploadController(presigner)
	router := gin.New()
	router.POST("/presigned-url", ctrl.GeneratePresignedURL)
	return router
}

func TestUploadController_DefaultsToRecipes(t *testing.T) {
	presigner := &fakePresigner{}
	router := setupUploadControllerTest(presigner)

	w := performJSON(router, http.MethodPost, "/presigned-url", gin.H{"filename": "a.png", "content_type": "image/png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, storage.FolderRecipes, presigner.folder)

	body := decodeBody(t, w)
	assert.Equal(t, "recipes/abc.png", body["key"])
	assert.Equal(t, "https://cdn.example.com/recipes/abc.png", body["file_url"])
	assert.NotEmpty(t, body["upload_url"])
}

func TestUploadController_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		presigner  *fakePresigner
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{"not an image", &fakePresigner{}, gin.H{"filename": "a.pdf", "content_type": "application/pdf"}, http.StatusBadRequest, "UPLOAD_INVALID_FILE_TYPE"},
		{"bad folder", &fakePresigner{}, gin.H{"filename": "a.png", "content_type": "image/png", "folder": "etc"}, http.StatusBadRequest, "UPLOAD_INVALID_FOLDER"},
		{"missing filename", &fakePresigner{}, gin.H{"content_type": "image/png"}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"s3 failure", &fakePresigner{err: errors.New("boom")}, gin.H{"filename": "a.png", "content_type": "image/png"}, http.StatusInternalServerError, "INTERNAL_EXTERNAL_API"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(setupUploadControllerTest(tt.presigner), http.MethodPost, "/presigned-url", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, w)["code"])
		})
	}
}
