package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the bucket API used by the upload relay
type ObjectStorage interface {
	PutPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (*Object, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Object describes a stored object
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type Config struct {
	Endpoint      string // host[:port], a scheme prefix is tolerated
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string // Optional CDN or custom domain
}

// S3Storage talks to any S3-compatible service (AWS, DigitalOcean Spaces, MinIO)
type S3Storage struct {
	cfg    Config
	host   string
	client *minio.Client
}

var _ ObjectStorage = (*S3Storage)(nil)

// New builds the client; no network call is made
func New(cfg Config) (*S3Storage, error) {
	host := normalizeEndpoint(cfg.Endpoint)
	if host == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage endpoint and bucket are required")
	}

	cl, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &S3Storage{cfg: cfg, host: host, client: cl}, nil
}

// Check verifies that the bucket is reachable and exists
func (s *S3Storage) Check(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to reach bucket %q: %w", s.cfg.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.cfg.Bucket)
	}
	return nil
}

// PutPublic uploads body with a public-read ACL. size may be -1 when unknown.
func (s *S3Storage) PutPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (*Object, error) {
	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object %q: %w", key, err)
	}
	return &Object{
		Key:         key,
		URL:         s.PublicURL(key),
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// PresignPut returns a URL the browser can PUT to directly.
// The client must send the same Content-Type and x-amz-acl headers.
func (s *S3Storage) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	headers := http.Header{}
	headers.Set("x-amz-acl", "public-read")
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.cfg.Bucket, key, ttl, nil, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign %q: %w", key, err)
	}
	return u.String(), nil
}

// Remove deletes the object; a missing object is not an error
func (s *S3Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the anonymous URL of key
func (s *S3Storage) PublicURL(key string) string {
	escaped := escapeKey(key)
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + escaped
	}
	scheme := "https"
	if !s.cfg.UseSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.cfg.Bucket, s.host, escaped)
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimRight(endpoint, "/")
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
