package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/facetag/internal/models"
)

const (
	PhotosStreamName  = "PHOTOS"
	PhotosSubjectBase = "photos"
	FacesStreamName   = "FACES"
	FacesSubjectBase  = "faces"
	EventsStreamName  = "EVENTS"
	EventsSubjectBase = "events"
)

type Producer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewProducer(natsURL string) (*Producer, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Producer{nc: nc, js: js}, nil
}

// EnsureStreams creates JetStream streams if they don't exist.
// Retries up to 30 times (1s apart) to handle NATS startup delay.
func (p *Producer) EnsureStreams(ctx context.Context) error {
	streams := []jetstream.StreamConfig{
		{
			Name:        PhotosStreamName,
			Subjects:    []string{PhotosSubjectBase + ".>"},
			Retention:   jetstream.WorkQueuePolicy,
			MaxAge:      24 * time.Hour,
			MaxMsgs:     100000,
			Storage:     jetstream.FileStorage,
			Discard:     jetstream.DiscardOld,
			Description: "Detection triggers for newly stored photos",
		},
		{
			Name:        FacesStreamName,
			Subjects:    []string{FacesSubjectBase + ".>"},
			Retention:   jetstream.WorkQueuePolicy,
			MaxAge:      24 * time.Hour,
			MaxMsgs:     100000,
			Storage:     jetstream.FileStorage,
			Discard:     jetstream.DiscardOld,
			Description: "Face-cut tasks for cutter workers",
		},
		{
			Name:        EventsStreamName,
			Subjects:    []string{EventsSubjectBase + ".>"},
			Retention:   jetstream.InterestPolicy,
			MaxAge:      24 * time.Hour,
			MaxMsgs:     1000000,
			Storage:     jetstream.FileStorage,
			Description: "Face lifecycle events",
		},
	}

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		allOK := true
		for _, cfg := range streams {
			opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_, err := p.js.CreateOrUpdateStream(opCtx, cfg)
			cancel()
			if err != nil {
				allOK = false
				if attempt == maxAttempts {
					return fmt.Errorf("create stream %s: %w (after %d attempts)", cfg.Name, err, maxAttempts)
				}
				slog.Warn("ensure NATS stream (retrying...)", "name", cfg.Name, "attempt", attempt, "error", err)
				break
			}
		}
		if allOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return nil
}

// PublishPhotoStored publishes a detection trigger for a freshly stored photo.
func (p *Producer) PublishPhotoStored(ctx context.Context, evt models.PhotoStored) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal photo event: %w", err)
	}

	_, err = p.js.Publish(ctx, PhotosSubjectBase+".stored", payload)
	if err != nil {
		return fmt.Errorf("publish photo event: %w", err)
	}
	return nil
}

// PublishFaceTask publishes one face-cut work item.
func (p *Producer) PublishFaceTask(ctx context.Context, task models.FaceCutTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal face task: %w", err)
	}

	_, err = p.js.Publish(ctx, FacesSubjectBase+".task", payload)
	if err != nil {
		return fmt.Errorf("publish face task: %w", err)
	}
	return nil
}

// PublishEvent publishes a face lifecycle event.
func (p *Producer) PublishEvent(ctx context.Context, evt models.FaceEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.js.Publish(ctx, fmt.Sprintf("%s.%s", EventsSubjectBase, evt.Type), payload)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// FaceQueueDepth returns the number of pending messages in the FACES stream.
func (p *Producer) FaceQueueDepth(ctx context.Context) (uint64, error) {
	stream, err := p.js.Stream(ctx, FacesStreamName)
	if err != nil {
		return 0, err
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.State.Msgs, nil
}

func (p *Producer) Ping() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

func (p *Producer) Close() {
	p.nc.Close()
}
