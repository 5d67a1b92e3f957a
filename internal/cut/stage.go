// Package cut implements the cutting stage: one face-cut task in, one new
// face object out.
package cut

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
)

// ObjectStore is the slice of the store the cutter needs.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
}

// EventPublisher announces face lifecycle events. May be nil-free no-op in
// tests; a publish failure is logged, not fatal, since the face object is
// already durable.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt models.FaceEvent) error
}

type Stage struct {
	store       ObjectStore
	events      EventPublisher
	photoBucket string
	faceBucket  string
}

func NewStage(store ObjectStore, events EventPublisher, photoBucket, faceBucket string) *Stage {
	return &Stage{
		store:       store,
		events:      events,
		photoBucket: photoBucket,
		faceBucket:  faceBucket,
	}
}

// Process handles one face-cut task and returns the new face object's key.
// The key is a fresh random UUID, so a redelivered task produces a duplicate
// face object rather than overwriting the first one.
func (s *Stage) Process(ctx context.Context, task models.FaceCutTask) (string, error) {
	if task.SourceKey == "" {
		return "", fmt.Errorf("invalid face task: empty source key")
	}

	data, err := s.store.GetObject(ctx, s.photoBucket, task.SourceKey)
	if err != nil {
		return "", fmt.Errorf("load source photo: %w", err)
	}

	start := time.Now()
	faceData, err := CropJPEG(data, task.Rect)
	if err != nil {
		return "", fmt.Errorf("crop face from %s: %w", task.SourceKey, err)
	}
	observability.StageDuration.WithLabelValues("cut").Observe(time.Since(start).Seconds())

	faceKey := uuid.New().String() + ".jpg"
	metadata := map[string]string{
		models.MetaOriginal: task.SourceKey,
	}
	if err := s.store.PutObject(ctx, s.faceBucket, faceKey, faceData, "image/jpeg", metadata); err != nil {
		return "", fmt.Errorf("store face object: %w", err)
	}
	observability.FacesCut.Inc()

	if s.events != nil {
		evt := models.FaceEvent{
			Type:      models.EventFaceCut,
			FaceKey:   faceKey,
			SourceKey: task.SourceKey,
		}
		if err := s.events.PublishEvent(ctx, evt); err != nil {
			slog.Warn("publish face_cut event", "face", faceKey, "error", err)
		}
	}

	slog.Info("face cut", "face", faceKey, "source", task.SourceKey, "rect", task.Rect)
	return faceKey, nil
}
