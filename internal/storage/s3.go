// Package storage uploads stop images to S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

// ErrNoImageStore is returned by Disabled when no bucket is configured.
var ErrNoImageStore = errors.New("image storage is not configured")

// ImageStore saves an object and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}

type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS itself
	PublicURL string // optional CDN/base URL for returned links
}

// Enabled reports whether enough is set to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

type S3Store struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return NewS3StoreWithClient(s3.New(sess), cfg.Bucket, publicURL), nil
}

// NewS3StoreWithClient wraps an existing client; tests pass a fake here.
func NewS3StoreWithClient(client s3iface.S3API, bucket, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicURL: publicURL}
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Disabled rejects every upload with ErrNoImageStore.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.ReadSeeker, string) (string, error) {
	return "", ErrNoImageStore
}

// StopImageKey builds a unique object key for a stop's image, keeping the
// upload's extension.
func StopImageKey(schoolID, stopID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("schools/%d/stops/%d/%s%s", schoolID, stopID, uuid.NewString(), ext)
}
