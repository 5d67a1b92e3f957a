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

	"github.com/your-org/facetag/internal/api"
	"github.com/your-org/facetag/internal/api/ws"
	"github.com/your-org/facetag/internal/bot"
	"github.com/your-org/facetag/internal/config"
	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/internal/registry"
	"github.com/your-org/facetag/internal/storage"
	"github.com/your-org/facetag/pkg/dto"
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

	slog.Info("starting facetag API service", "port", cfg.Server.Port)

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBuckets(context.Background(), cfg.MinIO.PhotoBucket, cfg.MinIO.FaceBucket); err != nil {
		slog.Warn("ensure minio buckets", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// Face registry over the face bucket
	reg := registry.New(minioStore, cfg.MinIO.FaceBucket)

	// Telegram bot
	sender, err := bot.NewTelegramSender(cfg.Telegram.Token)
	if err != nil {
		slog.Error("create telegram sender", "error", err)
		os.Exit(1)
	}
	tgBot := bot.New(reg, sender, producer, cfg.Server.PublicURL)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Start event consumer to broadcast lifecycle events via WebSocket
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeEvents(ctx, "api-events", func(ctx context.Context, msg jetstream.Msg) error {
		var evt models.FaceEvent
		if err := json.Unmarshal(msg.Data(), &evt); err != nil {
			return err
		}

		hub.BroadcastEvent(&dto.WSEvent{
			Type:      evt.Type,
			FaceKey:   evt.FaceKey,
			SourceKey: evt.SourceKey,
			Name:      evt.Name,
		})
		return nil
	})
	if err != nil {
		slog.Warn("start event consumer", "error", err)
	}

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:        cfg.Server.APIKey,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Store:         minioStore,
		Registry:      reg,
		Producer:      producer,
		Hub:           hub,
		Bot:           tgBot,
		PhotoBucket:   cfg.MinIO.PhotoBucket,
		FaceBucket:    cfg.MinIO.FaceBucket,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
