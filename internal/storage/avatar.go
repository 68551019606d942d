// Package storage uploads user avatars to an S3-compatible bucket and hands
// back public URLs. The bucket is an external service; nothing here is
// load-bearing for auth.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/RadislavKrasnov/contacts-api/internal/config"
)

// AvatarUploader stores avatar images under avatars/<username>-<uuid>. The
// random suffix versions uploads so a changed avatar is never served stale
// from CDN caches.
type AvatarUploader struct {
	cfg config.StorageConfig
}

func NewAvatarUploader(cfg config.StorageConfig) *AvatarUploader {
	return &AvatarUploader{cfg: cfg}
}

func (u *AvatarUploader) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(u.cfg.Region),
	}
	if u.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(u.cfg.AccessKey, u.cfg.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.Endpoint != "" {
			// Non-AWS deployments (MinIO) need an explicit endpoint and path-style keys.
			o.BaseEndpoint = aws.String(u.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores the image and returns its public URL.
func (u *AvatarUploader) Upload(ctx context.Context, username string, body io.Reader, contentType string) (string, error) {
	client, err := u.client(ctx)
	if err != nil {
		return "", fmt.Errorf("build s3 client: %w", err)
	}

	key := fmt.Sprintf("avatars/%s-%s", username, uuid.NewString())
	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}
	return u.cfg.PublicURL + "/" + key, nil
}
