package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements BlobStore on an S3 (or S3-compatible, e.g. MinIO)
// bucket.
type S3Store struct {
	client       *s3.Client
	bucket       string
	region       string
	baseEndpoint string
}

// S3Config carries the bucket coordinates. AccessKey/SecretKey are optional;
// when empty the default AWS credential chain is used. BaseEndpoint points
// at an S3-compatible server for local runs.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:       client,
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		baseEndpoint: cfg.BaseEndpoint,
	}, nil
}

// Upload puts the blob at key and returns its retrievable URL. The same key
// uploaded twice is silently overwritten.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	escaped := escapeKey(key)
	if s.baseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.baseEndpoint, "/"), s.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

// escapeKey percent-encodes each path segment while keeping the slashes
// that separate them.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

var _ BlobStore = (*S3Store)(nil)
