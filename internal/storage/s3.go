package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements ObjectStore on AWS S3 (or an S3-compatible provider).
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	prefix        string
	logger        *slog.Logger
}

func NewS3Store(ctx context.Context, bucket, prefix, region string, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	presignClient := s3.NewPresignClient(client)

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	return &S3Store{
		client:        client,
		presignClient: presignClient,
		bucket:        bucket,
		prefix:        prefix,
		logger:        logger,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	start := time.Now()
	fullKey := s.prefix + key

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		s.logger.Error("storage.put.failed", "bucket", s.bucket, "key", fullKey, "error", err)
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	s.logger.Info("storage.put.ok",
		"bucket", s.bucket,
		"key", fullKey,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	fullKey := s.prefix + key

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = lifetime
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return req.URL, nil
}
