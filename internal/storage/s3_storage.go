package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cravings-app/cravings-backend/config"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var (
	ErrInvalidContentType = errors.New("only image files are allowed")
	ErrInvalidFolder      = errors.New("folder must be avatars, recipes, or communities")
)

// Upload folders clients may target.
const (
	FolderAvatars     = "avatars"
	FolderRecipes     = "recipes"
	FolderCommunities = "communities"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedFolders = map[string]bool{
	FolderAvatars:     true,
	FolderRecipes:     true,
	FolderCommunities: true,
}

type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	region    string
	baseURL   string
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// Default chain: env vars, shared config, IAM role.
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	return &S3Storage{
		presigner: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// ValidateUpload checks the content type and folder of an upload request.
func ValidateUpload(contentType, folder string) error {
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return ErrInvalidContentType
	}
	if !allowedFolders[folder] {
		return ErrInvalidFolder
	}
	return nil
}

// PresignUpload returns a PUT URL valid for 15 minutes under folder/<uuid><ext>.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error) {
	if err := ValidateUpload(contentType, folder); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
