package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

// StorageService handles S3-compatible storage of shopping list exports
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// UploadResult contains information about an uploaded file
type UploadResult struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload uploads a file to S3
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		Bucket:      info.Bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// GetPresignedURL generates a presigned URL for downloading a file
func (s *StorageService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// UploadShoppingListExport stores a rendered shopping list under the
// event's prefix and returns a download link valid for expiry
func (s *StorageService) UploadShoppingListExport(ctx context.Context, eventID int, data []byte, expiry time.Duration) (*models.ExportResult, error) {
	key := ExportKey(eventID, uuid.New().String())

	result, err := s.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "text/csv")
	if err != nil {
		return nil, err
	}

	url, err := s.GetPresignedURL(ctx, result.Key, expiry)
	if err != nil {
		return nil, err
	}

	return &models.ExportResult{
		Key:       result.Key,
		URL:       url,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// DeleteEventExports removes every export stored for an event
func (s *StorageService) DeleteEventExports(ctx context.Context, eventID int) error {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    exportPrefix(eventID),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list exports: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	if len(keys) == 0 {
		return nil
	}
	return s.DeleteMultiple(ctx, keys)
}

// DeleteMultiple deletes multiple files from S3
func (s *StorageService) DeleteMultiple(ctx context.Context, keys []string) error {
	objectsCh := make(chan minio.ObjectInfo)

	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
	}()

	for err := range s.client.RemoveObjects(ctx, s.bucketName, objectsCh, minio.RemoveObjectsOptions{}) {
		if err.Err != nil {
			return fmt.Errorf("failed to delete object %s: %w", err.ObjectName, err.Err)
		}
	}

	return nil
}

func exportPrefix(eventID int) string {
	return fmt.Sprintf("events/%d/", eventID)
}

// ExportKey builds the object key of a shopping list export
func ExportKey(eventID int, id string) string {
	return fmt.Sprintf("%sshopping-list-%s.csv", exportPrefix(eventID), id)
}
