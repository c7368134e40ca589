// Package storage provides the MinIO-backed brochure store. Admissions
// brochures are uploaded by staff and attached to outbound lead
// notifications as short-lived presigned links.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"admissions_crm_backend/platform/config"
)

// PresignedURLTTL bounds how long a brochure link in an outbound message
// stays fetchable.
const PresignedURLTTL = 24 * time.Hour

// BrochureStore serves admission brochures out of a MinIO bucket.
type BrochureStore struct {
	client *minio.Client
	bucket string
}

// NewBrochureStore connects to MinIO. Returns an error when MinIO is not
// configured; callers treat a missing store as "no brochure step".
func NewBrochureStore(cfg config.MinIOConfig) (*BrochureStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &BrochureStore{
		client: client,
		bucket: cfg.GetMinioBucketBrochures(),
	}, nil
}

// EnsureBucketExists creates the brochure bucket if it is missing.
func (s *BrochureStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores a brochure and returns its file key.
func (s *BrochureStore) Upload(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	fileKey := filepath.ToSlash(filepath.Join("brochures", uniqueFileName))

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload brochure %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// PresignedURL returns a time-limited download link for a brochure.
func (s *BrochureStore) PresignedURL(ctx context.Context, fileKey string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign brochure url: %w", err)
	}
	return presigned.String(), nil
}
