package catalog

import (
	"context"
	"time"
)

// PresignedUpload is a short-lived URL an admin client PUTs an image to
type PresignedUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImageStorage stores product images outside the database
type ImageStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
	Delete(ctx context.Context, key string) error
}
