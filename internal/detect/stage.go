// Package detect implements the detection stage: one stored photo in, one
// face-cut task per detected face out.
package detect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
)

// ObjectGetter fetches photo bytes from the object store.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// FaceDetector is the opaque detection function: image bytes to rectangles.
type FaceDetector interface {
	DetectFaces(data []byte) ([]models.Rectangle, error)
}

// TaskPublisher enqueues face-cut work items.
type TaskPublisher interface {
	PublishFaceTask(ctx context.Context, task models.FaceCutTask) error
}

type Stage struct {
	store     ObjectGetter
	detector  FaceDetector
	publisher TaskPublisher
}

func NewStage(store ObjectGetter, detector FaceDetector, publisher TaskPublisher) *Stage {
	return &Stage{store: store, detector: detector, publisher: publisher}
}

// Process handles one detection trigger. Every detected rectangle must be
// enqueued: a failed publish fails the whole invocation so the trigger is
// redelivered instead of faces being silently lost.
func (s *Stage) Process(ctx context.Context, evt models.PhotoStored) error {
	if evt.Bucket == "" || evt.Key == "" {
		return fmt.Errorf("invalid photo event: bucket=%q key=%q", evt.Bucket, evt.Key)
	}

	data, err := s.store.GetObject(ctx, evt.Bucket, evt.Key)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}

	start := time.Now()
	rects, err := s.detector.DetectFaces(data)
	if err != nil {
		return fmt.Errorf("detect faces in %s: %w", evt.Key, err)
	}
	observability.StageDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())
	observability.FacesDetected.Add(float64(len(rects)))

	for _, rect := range rects {
		task := models.FaceCutTask{
			SourceKey: evt.Key,
			Rect:      rect,
		}
		if err := s.publisher.PublishFaceTask(ctx, task); err != nil {
			return fmt.Errorf("enqueue face task for %s: %w", evt.Key, err)
		}
	}

	slog.Info("photo processed", "key", evt.Key, "faces", len(rects))
	return nil
}
