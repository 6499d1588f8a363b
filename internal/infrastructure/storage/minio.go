package storage

import (
	"bytes"
	"context"
	"fmt"

	"country-currency-api/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectUploader là phần tối thiểu summary service cần từ object storage
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// MinIOStorage handles file uploads to MinIO
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage khởi tạo MinIO client và tạo bucket nếu chưa có
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Upload uploads a file to MinIO
// key: đường dẫn file trong bucket (vd: summary/summary.png)
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	// Format: http://localhost:9000/countries/summary/summary.png
	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	return url, nil
}
