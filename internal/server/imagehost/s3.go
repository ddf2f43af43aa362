// Package imagehost implements the remote image-host collaborator on top of
// an S3-compatible object store (minio in development). Failures are
// surfaced verbatim to the caller; there is no retry policy here.
package imagehost

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/datingapp/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// UploadResult is the outcome of a successful upload: the public URL the
// photo is served from and the storage key needed to delete it later.
type UploadResult struct {
	URL        string
	StorageKey string
}

// S3Host talks to one bucket of an S3-compatible endpoint.
type S3Host struct {
	config *sc.Config
}

func NewS3Host(cfg *sc.Config) *S3Host {
	return &S3Host{config: cfg}
}

// GetRandomStorageKey builds a date-sharded, collision-free object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("photos/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (h *S3Host) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(h.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			h.config.S3RootUser,     // MINIO_ROOT_USER
			h.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(h.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (h *S3Host) publicURL(key string) string {
	return strings.TrimRight(h.config.S3PublicBaseURL, "/") + "/" + key
}

// Upload stores the file under a fresh storage key and returns its public
// URL together with the key.
func (h *S3Host) Upload(ctx context.Context, file io.Reader, contentType string) (*UploadResult, error) {
	client, err := h.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := h.config.S3Bucket
	key := GetRandomStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        file,
		ContentType: &contentType,
	})
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: h.publicURL(key), StorageKey: key}, nil
}

// Delete removes the object stored under key.
func (h *S3Host) Delete(ctx context.Context, key string) error {
	client, err := h.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := h.config.S3Bucket

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	return err
}
