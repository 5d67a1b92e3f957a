package registry

import (
	"context"
	"fmt"

	"github.com/your-org/facetag/internal/models"
)

// ObjectStore is the slice of the object metadata store the registry needs.
// Implemented by storage.MinIOStore.
type ObjectStore interface {
	List(ctx context.Context, bucket string) ([]string, error)
	GetMetadata(ctx context.Context, bucket, key string) (map[string]string, error)
	MergeMetadata(ctx context.Context, bucket, key string, updates map[string]string) error
}

// FaceRegistry is the domain view over the face bucket. It holds no state of
// its own: every call scans the bucket's listing and per-object metadata, so
// concurrent registry instances observe whatever the store returns at call
// time. Each face object moves unlabeled → presented → labeled purely through
// its metadata.
type FaceRegistry struct {
	store  ObjectStore
	bucket string
}

func New(store ObjectStore, bucket string) *FaceRegistry {
	return &FaceRegistry{store: store, bucket: bucket}
}

// FindUnlabeled returns the key of the first face object (by listing order)
// without a Name, or "" when every face is labeled. There is no claim step:
// two concurrent callers can both receive the same key.
func (r *FaceRegistry) FindUnlabeled(ctx context.Context) (string, error) {
	keys, err := r.store.List(ctx, r.bucket)
	if err != nil {
		return "", fmt.Errorf("list faces: %w", err)
	}
	for _, key := range keys {
		meta, err := r.store.GetMetadata(ctx, r.bucket, key)
		if err != nil {
			return "", fmt.Errorf("face %s: %w", key, err)
		}
		if meta[models.MetaName] == "" {
			return key, nil
		}
	}
	return "", nil
}

// FindOriginalsByName returns the Original key of every face whose Name
// exactly equals name. Matching is case-sensitive. Unlabeled faces never
// match, even against an empty name.
func (r *FaceRegistry) FindOriginalsByName(ctx context.Context, name string) ([]string, error) {
	keys, err := r.store.List(ctx, r.bucket)
	if err != nil {
		return nil, fmt.Errorf("list faces: %w", err)
	}
	var originals []string
	for _, key := range keys {
		meta, err := r.store.GetMetadata(ctx, r.bucket, key)
		if err != nil {
			return nil, fmt.Errorf("face %s: %w", key, err)
		}
		if labeled, ok := meta[models.MetaName]; ok && labeled == name {
			originals = append(originals, meta[models.MetaOriginal])
		}
	}
	return originals, nil
}

// FindByCorrelationID returns the key of the first face whose stored
// correlation id equals id, or "" when no face matches.
func (r *FaceRegistry) FindByCorrelationID(ctx context.Context, id string) (string, error) {
	keys, err := r.store.List(ctx, r.bucket)
	if err != nil {
		return "", fmt.Errorf("list faces: %w", err)
	}
	for _, key := range keys {
		meta, err := r.store.GetMetadata(ctx, r.bucket, key)
		if err != nil {
			return "", fmt.Errorf("face %s: %w", key, err)
		}
		if meta[models.MetaCorrelation] == id {
			return key, nil
		}
	}
	return "", nil
}

// SetName labels a face. Unrelated metadata, notably Original, is preserved
// by the underlying merge.
func (r *FaceRegistry) SetName(ctx context.Context, key, name string) error {
	return r.store.MergeMetadata(ctx, r.bucket, key, map[string]string{
		models.MetaName: name,
	})
}

// SetCorrelation records the correlation id of the message that presented
// this face. A newer send overwrites the previous id, orphaning any reply
// still in flight for it.
func (r *FaceRegistry) SetCorrelation(ctx context.Context, key, id string) error {
	return r.store.MergeMetadata(ctx, r.bucket, key, map[string]string{
		models.MetaCorrelation: id,
	})
}

// Metadata returns the decoded metadata of one face object.
func (r *FaceRegistry) Metadata(ctx context.Context, key string) (map[string]string, error) {
	return r.store.GetMetadata(ctx, r.bucket, key)
}

// Keys lists all face object keys.
func (r *FaceRegistry) Keys(ctx context.Context) ([]string, error) {
	return r.store.List(ctx, r.bucket)
}
