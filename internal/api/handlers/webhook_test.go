package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facetag/internal/bot"
	"github.com/your-org/facetag/internal/registry"
	"github.com/your-org/facetag/internal/storage"
)

type noopSender struct{}

func (noopSender) SendText(ctx context.Context, chatID int64, text string, replyTo int) error {
	return nil
}

func (noopSender) SendPhoto(ctx context.Context, chatID int64, photoURL string, replyTo int) (string, error) {
	return "corr-1", nil
}

func (noopSender) SendMediaGroup(ctx context.Context, chatID int64, photoURLs []string, replyTo int) error {
	return nil
}

func newWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := registry.New(storage.NewMemoryStore(), "faces")
	b := bot.New(reg, noopSender{}, nil, "https://faces.example.com")

	r := gin.New()
	r.POST("/telegram/webhook", NewWebhookHandler(b).Telegram)
	return r
}

func TestWebhookMalformedPayload(t *testing.T) {
	r := newWebhookRouter()

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestWebhookValidUpdate(t *testing.T) {
	r := newWebhookRouter()

	body := `{"update_id":1,"message":{"message_id":5,"chat":{"id":42},"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); !strings.Contains(got, `"status":"ok"`) {
		t.Fatalf("body = %s, want status ok", got)
	}
}

func TestWebhookUpdateWithoutMessage(t *testing.T) {
	r := newWebhookRouter()

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{"update_id":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
