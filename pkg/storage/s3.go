package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// s3API is the subset of the MinIO client the backend needs; it exists so
// tests can substitute a fake without a running object store.
type s3API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

type s3ClientWrapper struct{ c *minio.Client }

func (w s3ClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w s3ClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w s3ClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w s3ClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return w.c.GetObject(ctx, bucketName, objectName, opts)
}
func (w s3ClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}
func (w s3ClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}
func (w s3ClientWrapper) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return w.c.ListObjects(ctx, bucketName, opts)
}

// S3Config holds connection parameters for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Storage persists blobs in an S3-compatible bucket. Keys are prefixed
// with the field directory, e.g. passports/<filename>.
type S3Storage struct {
	api     s3API
	bucket  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg S3Config, baseURL string) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return NewS3StorageWithAPI(ctx, s3ClientWrapper{c: client}, cfg.Bucket, baseURL)
}

// NewS3StorageWithAPI allows injecting a fake API in tests.
func NewS3StorageWithAPI(ctx context.Context, api s3API, bucket, baseURL string) (*S3Storage, error) {
	s := &S3Storage{api: api, bucket: bucket, baseURL: baseURL}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return s, nil
}

func (s *S3Storage) Type() string { return "s3" }

func (s *S3Storage) key(field, filename string) string {
	return FieldDir(field) + "/" + filename
}

func (s *S3Storage) Save(ctx context.Context, field, filename string, data []byte) (*FileInfo, error) {
	_, err := s.api.PutObject(ctx, s.bucket, s.key(field, filename), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &FileInfo{
		Filename:    filename,
		URL:         fmt.Sprintf("%s/api/uploads/%s/%s", s.baseURL, FieldDir(field), filename),
		StorageType: s.Type(),
	}, nil
}

func (s *S3Storage) Get(ctx context.Context, field, filename string) ([]byte, error) {
	obj, err := s.api.GetObject(ctx, s.bucket, s.key(field, filename), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s *S3Storage) Delete(ctx context.Context, field, filename string) (bool, error) {
	// RemoveObject is idempotent; stat first so absence is reported
	// instead of silently succeeding.
	if _, err := s.api.StatObject(ctx, s.bucket, s.key(field, filename), minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}

	if err := s.api.RemoveObject(ctx, s.bucket, s.key(field, filename), minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed to delete object: %w", err)
	}
	return true, nil
}

func (s *S3Storage) List(ctx context.Context) (*Listing, error) {
	listing := &Listing{Passports: []string{}, Signatures: []string{}}

	for obj := range s.api.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		switch {
		case strings.HasPrefix(obj.Key, "passports/"):
			listing.Passports = append(listing.Passports, strings.TrimPrefix(obj.Key, "passports/"))
		case strings.HasPrefix(obj.Key, "signatures/"):
			listing.Signatures = append(listing.Signatures, strings.TrimPrefix(obj.Key, "signatures/"))
		}
	}
	listing.Total = len(listing.Passports) + len(listing.Signatures)
	return listing, nil
}
