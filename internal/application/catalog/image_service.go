package catalog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllowedImageTypes is the whitelist of product image content types.
// SVG is excluded because it can carry script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var errStorageNotConfigured = shared.NewDomainError(shared.CodeStorageNotConfigured, "Image storage is not configured")

// ImageService hands out presigned upload URLs for product images
type ImageService struct {
	storage     catalog.ImageStorage
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewImageService creates a new ImageService. storage may be nil when uploads are disabled.
func NewImageService(storage catalog.ImageStorage, productRepo catalog.ProductRepository, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		storage:     storage,
		productRepo: productRepo,
		logger:      logger,
	}
}

// PresignUpload validates the file and returns a URL the admin client uploads to.
// The returned public URL is then added to the product's images.
func (s *ImageService) PresignUpload(ctx context.Context, req ImageUploadRequest) (*catalog.PresignedUpload, error) {
	if s.storage == nil {
		return nil, errStorageNotConfigured
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError("Unsupported image type: %q", req.ContentType)
	}
	if req.ProductID != nil {
		if _, err := s.productRepo.FindByID(ctx, *req.ProductID); err != nil {
			return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load product")
		}
	}

	key := imageKey(req.ProductID, req.FileName, ext)
	upload, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.String("key", key), zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodePersistence, "Failed to prepare image upload", err)
	}
	return upload, nil
}

// Delete removes an uploaded image object
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if s.storage == nil {
		return errStorageNotConfigured
	}
	if !strings.HasPrefix(key, "products/") {
		return shared.NewValidationError("Not a product image key")
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return shared.WrapDomainError(shared.CodePersistence, "Failed to delete image", err)
	}
	return nil
}

// imageKey builds products/<product id or "unassigned">/<random>[-<name>]<ext>
func imageKey(productID *uuid.UUID, fileName, ext string) string {
	owner := "unassigned"
	if productID != nil {
		owner = productID.String()
	}
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = sanitizeName(base)
	name := uuid.NewString()
	if base != "" {
		name += "-" + base
	}
	return "products/" + owner + "/" + name + ext
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
