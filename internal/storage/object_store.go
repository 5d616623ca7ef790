package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"campusboard/api/internal/config"
)

// MediaHost stores uploaded images in an S3-compatible bucket and hands out
// their public URLs.
type MediaHost struct {
	client  *minio.Client
	bucket  string
	region  string
	baseURL string
}

func NewMediaHost(cfg config.MediaConfig) (*MediaHost, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &MediaHost{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: publicBaseURL(cfg.PublicBaseURL, endpoint, useSSL, cfg.Bucket),
	}, nil
}

// publicBaseURL falls back to path-style addressing on the endpoint when no
// CDN or public host is configured.
func publicBaseURL(configured, endpoint string, useSSL bool, bucket string) string {
	if configured != "" {
		return strings.TrimSuffix(configured, "/")
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
}

func (h *MediaHost) EnsureBucket(ctx context.Context) error {
	exists, err := h.client.BucketExists(ctx, h.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", h.bucket, err)
	}
	if !exists {
		if err := h.client.MakeBucket(ctx, h.bucket, minio.MakeBucketOptions{Region: h.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", h.bucket, err)
		}
	}
	return nil
}

// Put uploads the object and returns the URL it is served from.
func (h *MediaHost) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := h.client.PutObject(ctx, h.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return h.baseURL + "/" + key, nil
}

func (h *MediaHost) Ping(ctx context.Context) error {
	_, err := h.client.BucketExists(ctx, h.bucket)
	return err
}
