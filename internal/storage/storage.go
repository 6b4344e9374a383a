package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores and serves uploaded file blobs in remote object storage.
type Service interface {
	UploadObject(ctx context.Context, bucket, key string, body io.Reader) error
	PresignDownload(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
