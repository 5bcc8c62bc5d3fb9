package repository

import (
	"context"
	"time"
)

// ObjectStorage defines the interface for poster object storage.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// GeneratePresignedUploadURL creates a presigned URL for direct client
	// upload of a poster image. The URL is valid for the specified duration.
	// key is the object path within the bucket (e.g., "posters/{movie_id}.jpg").
	GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a presigned URL for downloading a
	// poster. The URL is valid for the specified duration.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)
}
