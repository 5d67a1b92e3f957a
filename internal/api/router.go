package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facetag/internal/api/handlers"
	"github.com/your-org/facetag/internal/api/ws"
	"github.com/your-org/facetag/internal/auth"
	"github.com/your-org/facetag/internal/bot"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/internal/registry"
)

type RouterConfig struct {
	APIKey        string
	WebhookSecret string
	Store         handlers.ObjectStore
	Registry      *registry.FaceRegistry
	Producer      *queue.Producer
	Hub           *ws.Hub
	Bot           *bot.Bot
	PhotoBucket   string
	FaceBucket    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.Store, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Telegram webhook, guarded by the secret token instead of the API key
	webhookH := handlers.NewWebhookHandler(cfg.Bot)
	r.POST("/telegram/webhook", auth.WebhookSecretMiddleware(cfg.WebhookSecret), webhookH.Telegram)

	photoH := handlers.NewPhotoHandler(cfg.Store, cfg.Producer, cfg.PhotoBucket)
	faceH := handlers.NewFaceHandler(cfg.Store, cfg.Registry, cfg.FaceBucket)

	// Image serving stays unauthenticated: Telegram downloads the URLs the
	// bot sends from these routes and carries no API key.
	r.GET("/v1/photos/:key", photoH.Get)
	r.GET("/v1/faces/:key", faceH.Get)

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Photos
	v1.POST("/photos", photoH.Upload)

	// Faces
	v1.GET("/faces", faceH.List)

	return r
}
