package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory object store with the same contract as
// MinIOStore. Used in tests and local development. Listing order is
// lexicographic by key, matching S3-style listings.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*memObject
}

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]*memObject)}
}

// bucket returns the named bucket's objects, creating the bucket if it
// does not exist. Callers must hold the write lock; read paths look up
// s.buckets directly so readers never mutate the map.
func (s *MemoryStore) bucket(name string) map[string]*memObject {
	b, ok := s.buckets[name]
	if !ok {
		b = make(map[string]*memObject)
		s.buckets[name] = b
	}
	return b
}

func (s *MemoryStore) List(ctx context.Context, bucket string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("get object %s/%s: not found", bucket, key)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

func (s *MemoryStore) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	s.bucket(bucket)[key] = &memObject{data: stored, contentType: contentType, metadata: meta}
	return nil
}

func (s *MemoryStore) GetMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("stat object %s/%s: not found", bucket, key)
	}
	meta := make(map[string]string, len(obj.metadata))
	for k, v := range obj.metadata {
		meta[k] = v
	}
	return meta, nil
}

func (s *MemoryStore) MergeMetadata(ctx context.Context, bucket, key string, updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return fmt.Errorf("merge metadata %s/%s: not found", bucket, key)
	}
	for k, v := range updates {
		obj.metadata[k] = v
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
