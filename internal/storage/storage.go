package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// TrackStorage defines the object storage operations needed for GPS track
// files. Clients upload and download directly against presigned URLs; the
// backend only holds object keys.
type TrackStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL allowing a PUT of
	// the object. The client must send the same Content-Type header.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL allowing a GET
	// of the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
