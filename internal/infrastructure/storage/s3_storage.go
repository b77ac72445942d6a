// Package storage provides the S3-compatible product image store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultPresignExpiration = 15 * time.Minute

var (
	ErrMissingConfig = errors.New("storage configuration is required")
	ErrMissingBucket = errors.New("storage bucket is required")
	ErrMissingKeys   = errors.New("storage access key and secret key are required")
	ErrEmptyKey      = errors.New("storage key is required")
)

// S3ImageStorage implements catalog.ImageStorage on any S3-compatible service
type S3ImageStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	endpoint          string
	publicBaseURL     string
	usePathStyle      bool
	presignExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

var _ catalog.ImageStorage = (*S3ImageStorage)(nil)

type S3ImageStorageOption func(*S3ImageStorage)

func WithLogger(logger *zap.Logger) S3ImageStorageOption {
	return func(s *S3ImageStorage) {
		s.logger = logger
	}
}

func WithPresignExpiration(d time.Duration) S3ImageStorageOption {
	return func(s *S3ImageStorage) {
		s.presignExpiration = d
	}
}

// NewS3ImageStorage builds the client from static credentials and a custom endpoint
func NewS3ImageStorage(ctx context.Context, cfg *config.StorageConfig, opts ...S3ImageStorageOption) (*S3ImageStorage, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingKeys
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "ap-south-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3ImageStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		endpoint:          endpoint,
		publicBaseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
		usePathStyle:      cfg.UsePathStyle,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = defaultPresignExpiration
	}
	return s, nil
}

// normalizeEndpoint returns "" for AWS itself, otherwise a URL with a scheme
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (s *S3ImageStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating image bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignUpload returns a PUT URL for key and the URL the image will be served from
func (s *S3ImageStorage) PresignUpload(ctx context.Context, key, contentType string) (*catalog.PresignedUpload, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	s.logger.Debug("Presigned image upload", zap.String("key", key))
	return &catalog.PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: s.PublicURL(key),
		ExpiresAt: s.now().Add(s.presignExpiration),
	}, nil
}

// Delete removes an object. Deleting a missing key succeeds.
func (s *S3ImageStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL is where a stored object can be fetched by browsers
func (s *S3ImageStorage) PublicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case s.publicBaseURL != "":
		return s.publicBaseURL + "/" + escaped
	case s.endpoint != "" && s.usePathStyle:
		return s.endpoint + "/" + s.bucket + "/" + escaped
	case s.endpoint != "":
		u, _ := url.Parse(s.endpoint)
		return u.Scheme + "://" + s.bucket + "." + u.Host + "/" + escaped
	default:
		return "https://" + s.bucket + ".s3.amazonaws.com/" + escaped
	}
}

func (s *S3ImageStorage) Bucket() string {
	return s.bucket
}
