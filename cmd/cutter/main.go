package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facetag/internal/config"
	"github.com/your-org/facetag/internal/cut"
	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting facetag cutter", "workers", cfg.Vision.WorkerCount)

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBuckets(context.Background(), cfg.MinIO.FaceBucket); err != nil {
		slog.Warn("ensure face bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	stage := cut.NewStage(minioStore, producer, cfg.MinIO.PhotoBucket, cfg.MinIO.FaceBucket)

	// Create NATS consumer
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming face cut tasks
	err = consumer.ConsumeFaceTasks(ctx, "cutter-workers", func(ctx context.Context, msg jetstream.Msg) error {
		var task models.FaceCutTask
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			slog.Error("unmarshal face task", "error", err)
			return nil // Don't retry on unmarshal errors
		}

		faceKey, err := stage.Process(ctx, task)
		if err != nil {
			return fmt.Errorf("cut face from %s: %w", task.SourceKey, err)
		}

		slog.Debug("face stored", "face_key", faceKey, "source_key", task.SourceKey)
		return nil
	}, cfg.Vision.WorkerCount)
	if err != nil {
		slog.Error("start face task consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("cutter metrics listening", "addr", ":8082")
		if err := http.ListenAndServe(":8082", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down cutter...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("cutter stopped")
}
