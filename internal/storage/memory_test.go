package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStoreConcurrentReadsOnMissingBucket(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		bucket := fmt.Sprintf("bucket-%d", i%4)
		wg.Add(3)
		go func() {
			defer wg.Done()
			if keys, _ := store.List(ctx, bucket); len(keys) != 0 {
				t.Errorf("List(%s) = %v, want empty", bucket, keys)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := store.GetObject(ctx, bucket, "missing"); err == nil {
				t.Errorf("GetObject(%s, missing) = nil error, want not found", bucket)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := store.GetMetadata(ctx, bucket, "missing"); err == nil {
				t.Errorf("GetMetadata(%s, missing) = nil error, want not found", bucket)
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStoreConcurrentReadersAndWriter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("obj-%d.jpg", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := store.PutObject(ctx, "photos", key, []byte("x"), "image/jpeg", nil); err != nil {
				t.Errorf("PutObject(%s) = %v", key, err)
			}
		}()
		go func() {
			defer wg.Done()
			store.List(ctx, "photos")
			store.GetObject(ctx, "photos", key)
		}()
	}
	wg.Wait()

	keys, err := store.List(ctx, "photos")
	if err != nil {
		t.Fatalf("List after writes: %v", err)
	}
	if len(keys) != 8 {
		t.Fatalf("len(keys) = %d, want 8", len(keys))
	}
}
