package core

import (
	"context"
	"io"
)

// UploadStore persists accepted uploads and returns a local path the extractors can read.
type UploadStore interface {
	Save(ctx context.Context, filename string, data []byte) (path string, err error)
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so you can replace AWS with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}
