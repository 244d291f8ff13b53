package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type S3Options struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxBytes      int64
	Logger        zerolog.Logger
}

// S3Store streams images to an S3-compatible bucket. The multipart
// uploader writes incrementally, so the full image never has to sit
// in memory.
type S3Store struct {
	uploader      *manager.Uploader
	bucket        string
	region        string
	endpoint      string
	publicBaseURL string
	maxBytes      int64
	logger        zerolog.Logger
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	lg := opts.Logger.With().Str("service", "S3Store").Logger()
	return &S3Store{
		uploader:      manager.NewUploader(client),
		bucket:        opts.Bucket,
		region:        opts.Region,
		endpoint:      strings.TrimRight(opts.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		maxBytes:      opts.MaxBytes,
		logger:        lg,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, r io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("placements/%s%s", uuid.New().String(), extensionFor(contentType))

	body := r
	if s.maxBytes > 0 {
		body = Capped(r, s.maxBytes)
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		if errors.Is(err, ErrStreamTooLarge) {
			return "", ErrStreamTooLarge
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info().Str("key", key).Str("content_type", contentType).Msg("Image stored")
	return s.url(key), nil
}

func (s *S3Store) url(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}
