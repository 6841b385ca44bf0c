package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"rentalAPI/internal/config"
	"rentalAPI/internal/logger"
)

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета MinIO: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета MinIO: %w", err)
		}
		logger.Log.Info("создан бакет MinIO", zap.String("bucket", cfg.MinIO.BucketName))
	}

	return &MinIOClient{
		client:  client,
		bucket:  cfg.MinIO.BucketName,
		baseURL: publicURL(cfg.MinIO.PublicURL, cfg.MinIO.BucketName),
	}, nil
}

func (m *MinIOClient) Upload(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*UploadResult, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return &UploadResult{
		Key: key,
		URL: publicURL(m.baseURL, key),
	}, nil
}

// Delete treats a missing object as already deleted.
func (m *MinIOClient) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isMinIONotFound(err) {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) DeleteFolder(ctx context.Context, folder string) error {
	objects := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    folderPrefix(folder),
		Recursive: true,
	})

	toRemove := make(chan minio.ObjectInfo)
	listErr := make(chan error, 1)

	go func() {
		defer close(toRemove)
		for obj := range objects {
			if obj.Err != nil {
				listErr <- obj.Err
				return
			}
			select {
			case toRemove <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := drainRemoveErrors(m.client.RemoveObjects(ctx, m.bucket, toRemove, minio.RemoveObjectsOptions{})); err != nil {
		return fmt.Errorf("ошибка удаления папки %s из MinIO: %w", folder, err)
	}

	select {
	case err := <-listErr:
		return fmt.Errorf("ошибка получения списка объектов MinIO: %w", err)
	default:
		return nil
	}
}

func (m *MinIOClient) Ping(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucket); err != nil {
		return fmt.Errorf("MinIO недоступен: %w", err)
	}
	return nil
}

// drainRemoveErrors reads results until the channel is closed and returns the first failure.
// The client stops its workers only once every result has been consumed.
func drainRemoveErrors(results <-chan minio.RemoveObjectError) error {
	var first error
	for rErr := range results {
		if first == nil && rErr.Err != nil && !isMinIONotFound(rErr.Err) {
			first = rErr.Err
		}
	}
	return first
}

func isMinIONotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}
