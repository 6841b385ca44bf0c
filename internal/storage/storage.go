package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"rentalAPI/internal/config"
)

// Storage is the remote blob host holding picture binaries. Objects are
// addressed by key; keys are grouped under per-record folders.
type Storage interface {
	Upload(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	DeleteFolder(ctx context.Context, folder string) error
	Ping(ctx context.Context) error
}

type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// New picks the driver configured by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return NewS3Client(ctx, cfg)
	case config.StorageMinIO:
		return NewMinIOClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %s", cfg.Storage.Driver)
	}
}

func UserFolder(root, userID string) string {
	return path.Join(root, "users", userID)
}

func RoomFolder(root, roomID string) string {
	return path.Join(root, "rooms", roomID)
}

// NewObjectKey returns a fresh key inside folder.
func NewObjectKey(folder, ext string) string {
	return path.Join(folder, uuid.New().String()+strings.ToLower(ext))
}

func publicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}

func folderPrefix(folder string) string {
	return strings.TrimSuffix(folder, "/") + "/"
}
