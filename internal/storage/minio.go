package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/your-org/facetag/internal/config"
)

// MinIOStore is the object metadata store: binary objects plus a mutable
// string-to-string metadata mapping per object. Buckets are passed per call
// since the pipeline works with a photo bucket and a face bucket.
type MinIOStore struct {
	client *minio.Client
}

func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOStore{client: client}, nil
}

// EnsureBuckets creates the given buckets if they don't exist.
func (s *MinIOStore) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

// List returns all object keys in a bucket, in the order MinIO returns them.
func (s *MinIOStore) List(ctx context.Context, bucket string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", bucket, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// GetObject retrieves object data by key.
func (s *MinIOStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// PutObject stores data under the given key with the given (plain text)
// metadata. Metadata values are transparently encoded for transport.
func (s *MinIOStore) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: encodeMetadata(metadata),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// GetMetadata returns the decoded metadata mapping of an object. An object
// without metadata yields an empty map, not an error.
func (s *MinIOStore) GetMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("stat object %s/%s: %w", bucket, key, err)
	}
	meta, err := decodeMetadata(info.UserMetadata)
	if err != nil {
		return nil, fmt.Errorf("object %s/%s: %w", bucket, key, err)
	}
	return meta, nil
}

// MergeMetadata shallow-merges updates on top of the object's current
// metadata and writes the result back via a server-side copy with metadata
// replacement. The read-modify-write is not atomic: two concurrent merges on
// the same key can race and the loser's update is silently overwritten.
func (s *MinIOStore) MergeMetadata(ctx context.Context, bucket, key string, updates map[string]string) error {
	current, err := s.GetMetadata(ctx, bucket, key)
	if err != nil {
		return err
	}
	for k, v := range updates {
		current[k] = v
	}

	_, err = s.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          bucket,
			Object:          key,
			UserMetadata:    encodeMetadata(current),
			ReplaceMetadata: true,
		},
		minio.CopySrcOptions{
			Bucket: bucket,
			Object: key,
		},
	)
	if err != nil {
		return fmt.Errorf("merge metadata %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Ping checks MinIO connectivity.
func (s *MinIOStore) Ping(ctx context.Context) error {
	_, err := s.client.ListBuckets(ctx)
	return err
}
