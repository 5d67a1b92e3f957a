package handlers

import "context"

// ObjectStore is the slice of the object store the HTTP layer needs. Both
// the MinIO store and the in-memory store satisfy it.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
	Ping(ctx context.Context) error
}
