// Package remotestore implements the §6 storage-collaborator contract
// — upload(bytes, remote_path), download(remote_path) -> bytes,
// list(directory) -> entries — against an S3-compatible bucket.
// Adapted from the teacher's internal/storage Service, stripped of
// its database-backed attachment bookkeeping (this domain has no
// durable relational store) and its pre-signed-URL API (the core
// treats upload/download as direct, opaque, all-or-nothing moves, not
// browser-facing URLs).
package remotestore

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/hlog"
)

// Store implements the storage-collaborator contract against a bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// Entry is one row returned by List.
type Entry struct {
	Path string
	Size int64
}

// New connects to an S3-compatible endpoint and ensures bucket exists,
// following the teacher's env-var convention (S3_ENDPOINT,
// S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_USE_SSL).
func New(ctx context.Context) (*Store, error) {
	endpoint := getenv("S3_ENDPOINT", "localhost:9000")
	accessKey := getenv("S3_ACCESS_KEY", "minioadmin")
	secretKey := getenv("S3_SECRET_KEY", "minioadmin")
	bucket := getenv("S3_BUCKET", "hermes-artifacts")
	region := getenv("S3_REGION", "us-east-1")
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, herrors.New(herrors.IoError, "remotestore.New", err)
	}

	s := &Store{client: client, bucket: bucket}
	if err := s.ensureBucket(ctx, region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return herrors.New(herrors.IoError, "remotestore.ensureBucket", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return herrors.New(herrors.IoError, "remotestore.ensureBucket", err)
		}
		hlog.Infof("remotestore", "created bucket %s", s.bucket)
	}
	return nil
}

// Upload is the contract's upload(bytes, remote_path): an opaque
// all-or-nothing move. Atomicity and durability past this call are
// the store's concern, not the core's.
func (s *Store) Upload(ctx context.Context, remotePath string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, remotePath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return herrors.New(herrors.IoError, "remotestore.Upload", err)
	}
	return nil
}

// Download is the contract's download(remote_path) -> bytes.
func (s *Store) Download(ctx context.Context, remotePath string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, remotePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, herrors.New(herrors.IoError, "remotestore.Download", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, herrors.New(herrors.IoError, "remotestore.Download", err)
	}
	return data, nil
}

// List is the contract's list(directory) -> entries.
func (s *Store) List(ctx context.Context, directory string) ([]Entry, error) {
	var entries []Entry
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: directory, Recursive: true}) {
		if obj.Err != nil {
			return nil, herrors.New(herrors.IoError, "remotestore.List", obj.Err)
		}
		entries = append(entries, Entry{Path: obj.Key, Size: obj.Size})
	}
	return entries, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
