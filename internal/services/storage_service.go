package services

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

const (
	ReadURLTTL  = 10 * time.Minute
	WriteURLTTL = 15 * time.Minute
)

// StorageService is the object storage gateway. Keys are bucket-relative.
type StorageService interface {
	PresignedPutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	KeyFromURL(raw string) string
	EnsureBucket(ctx context.Context) error
}

type StorageOptions struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	Bucket        string
	PublicBaseURL string
}

type minioStorage struct {
	client     *minio.Client
	bucket     string
	region     string
	publicBase string
}

func NewStorageService(opts StorageOptions) (StorageService, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{
		client:     client,
		bucket:     opts.Bucket,
		region:     opts.Region,
		publicBase: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

// PresignedPutURL signs a single PUT whose Content-Type must match contentType.
func (m *minioStorage) PresignedPutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	u, err := m.client.PresignHeader(ctx, http.MethodPut, m.bucket, key, ttl, nil, headers)
	if err != nil {
		return "", fmt.Errorf("failed to sign upload url: %w", err)
	}
	return u.String(), nil
}

func (m *minioStorage) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to sign read url: %w", err)
	}
	return u.String(), nil
}

func (m *minioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *minioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *minioStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBase, m.bucket, strings.TrimLeft(key, "/"))
}

// KeyFromURL turns a public or signed object URL back into a key. Only URLs are
// unescaped; input that is already a key is kept as is apart from a leading
// slash and bucket name.
func (m *minioStorage) KeyFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	key := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		// u.Path is already unescaped and carries no query
		key = u.Path
		if base, err := url.Parse(m.publicBase); err == nil && base.Host == u.Host {
			key = strings.TrimPrefix(key, strings.TrimRight(base.Path, "/"))
		}
	}

	key = strings.TrimLeft(key, "/")
	return strings.TrimPrefix(key, m.bucket+"/")
}

func (m *minioStorage) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region})
	}
	return nil
}
