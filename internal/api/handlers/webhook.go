package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mymmrac/telego"

	"github.com/your-org/facetag/internal/bot"
)

type WebhookHandler struct {
	bot *bot.Bot
}

func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// Telegram handles an incoming bot update. Malformed payloads get a 400;
// handler errors are logged but still answered with 200 so Telegram does
// not retry an update we cannot process.
func (h *WebhookHandler) Telegram(c *gin.Context) {
	var update telego.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	if err := h.bot.HandleUpdate(c.Request.Context(), update); err != nil {
		slog.Error("webhook update failed", "update_id", update.UpdateID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
