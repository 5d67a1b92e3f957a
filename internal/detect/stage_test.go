package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/storage"
)

type stubDetector struct {
	rects []models.Rectangle
	err   error
}

func (d *stubDetector) DetectFaces(data []byte) ([]models.Rectangle, error) {
	return d.rects, d.err
}

type capturePublisher struct {
	tasks  []models.FaceCutTask
	failAt int // 1-based index of the publish call that fails; 0 disables
	calls  int
	pubErr error
}

func (p *capturePublisher) PublishFaceTask(ctx context.Context, task models.FaceCutTask) error {
	p.calls++
	if p.failAt != 0 && p.calls == p.failAt {
		if p.pubErr == nil {
			p.pubErr = errors.New("publish failed")
		}
		return p.pubErr
	}
	p.tasks = append(p.tasks, task)
	return nil
}

func TestProcessEnqueuesOneTaskPerFace(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.PutObject(ctx, "photos", "p1.jpg", []byte("jpeg"), "image/jpeg", nil); err != nil {
		t.Fatal(err)
	}

	detector := &stubDetector{rects: []models.Rectangle{{0, 0, 10, 10}, {5, 5, 8, 8}}}
	publisher := &capturePublisher{}
	stage := NewStage(store, detector, publisher)

	if err := stage.Process(ctx, models.PhotoStored{Bucket: "photos", Key: "p1.jpg"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(publisher.tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(publisher.tasks))
	}
	for i, want := range detector.rects {
		task := publisher.tasks[i]
		if task.SourceKey != "p1.jpg" {
			t.Errorf("task %d source key: got %q, want %q", i, task.SourceKey, "p1.jpg")
		}
		if task.Rect != want {
			t.Errorf("task %d rect: got %v, want %v", i, task.Rect, want)
		}
	}
}

func TestProcessNoFaces(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.PutObject(ctx, "photos", "p1.jpg", []byte("jpeg"), "image/jpeg", nil); err != nil {
		t.Fatal(err)
	}

	publisher := &capturePublisher{}
	stage := NewStage(store, &stubDetector{}, publisher)

	if err := stage.Process(ctx, models.PhotoStored{Bucket: "photos", Key: "p1.jpg"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(publisher.tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(publisher.tasks))
	}
}

func TestProcessPublishFailurePropagates(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.PutObject(ctx, "photos", "p1.jpg", []byte("jpeg"), "image/jpeg", nil); err != nil {
		t.Fatal(err)
	}

	detector := &stubDetector{rects: []models.Rectangle{{0, 0, 10, 10}, {5, 5, 8, 8}}}
	publisher := &capturePublisher{failAt: 2}
	stage := NewStage(store, detector, publisher)

	err := stage.Process(ctx, models.PhotoStored{Bucket: "photos", Key: "p1.jpg"})
	if err == nil {
		t.Fatal("expected error when a publish fails")
	}
}

func TestProcessInvalidEvent(t *testing.T) {
	stage := NewStage(storage.NewMemoryStore(), &stubDetector{}, &capturePublisher{})

	tests := []struct {
		name string
		evt  models.PhotoStored
	}{
		{"missing bucket", models.PhotoStored{Key: "p1.jpg"}},
		{"missing key", models.PhotoStored{Bucket: "photos"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := stage.Process(context.Background(), tc.evt); err == nil {
				t.Error("expected error for malformed event")
			}
		})
	}
}

func TestProcessMissingPhoto(t *testing.T) {
	stage := NewStage(storage.NewMemoryStore(), &stubDetector{}, &capturePublisher{})

	err := stage.Process(context.Background(), models.PhotoStored{Bucket: "photos", Key: "absent.jpg"})
	if err == nil {
		t.Fatal("expected error for missing photo")
	}
}
