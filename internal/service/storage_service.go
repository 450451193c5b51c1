package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/launchbase/readiness-api/internal/config"
)

// StorageServiceInterface is the blob storage boundary: the upload API
// writes objects, the ingestion pipeline reads them back, and file
// deletion removes them.
type StorageServiceInterface interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Remove(ctx context.Context, paths []string) error
}

// StorageService talks to an S3-compatible object store over its REST
// API (Supabase storage layout: /object/<bucket>/<path>).
type StorageService struct {
	client *resty.Client
	bucket string
}

func NewStorageService() *StorageService {
	storageConfig := config.LoadStorageConfig()
	client := resty.New().
		SetBaseURL(storageConfig.BaseURL).
		SetHeader("Authorization", "Bearer "+storageConfig.APIKey)
	return &StorageService{
		client: client,
		bucket: storageConfig.Bucket,
	}
}

func (s *StorageService) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/object/%s/%s", s.bucket, path))
	if err != nil {
		return nil, fmt.Errorf("storage download %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("storage download %s: status %d", path, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (s *StorageService) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post(fmt.Sprintf("/object/%s/%s", s.bucket, path))
	if err != nil {
		return fmt.Errorf("storage upload %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("storage upload %s: status %d", path, resp.StatusCode())
	}
	return nil
}

func (s *StorageService) Remove(ctx context.Context, paths []string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string][]string{"prefixes": paths}).
		Delete(fmt.Sprintf("/object/%s", s.bucket))
	if err != nil {
		return fmt.Errorf("storage remove: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("storage remove: status %d", resp.StatusCode())
	}
	return nil
}
