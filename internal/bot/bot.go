// Package bot implements the conversational front-end of the tagging
// workflow. There is no session state: each update is resolved purely from
// the message shape, and everything the next invocation needs lives in the
// face registry's metadata.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
)

const (
	startText        = "Hi! I put names to faces. Send /getface to see one."
	helpText         = "I am a face tagging bot. /getface shows an unlabeled face; reply to the photo with a name to label it. /find <name> returns the original photos for a name."
	allLabeledText   = "All face photos are already labeled."
	unrecognizedText = "Command not recognized. Try /start or /help."
)

// Registry is the face registry surface the bot drives.
type Registry interface {
	FindUnlabeled(ctx context.Context) (string, error)
	FindOriginalsByName(ctx context.Context, name string) ([]string, error)
	FindByCorrelationID(ctx context.Context, id string) (string, error)
	SetName(ctx context.Context, key, name string) error
	SetCorrelation(ctx context.Context, key, id string) error
}

// EventPublisher announces face lifecycle events. Optional.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt models.FaceEvent) error
}

type Bot struct {
	registry  Registry
	sender    Sender
	events    EventPublisher
	publicURL string
}

func New(registry Registry, sender Sender, events EventPublisher, publicURL string) *Bot {
	return &Bot{
		registry:  registry,
		sender:    sender,
		events:    events,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// HandleUpdate resolves one inbound update to an intent and executes it.
// Updates without a message are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update telego.Update) error {
	if update.Message == nil {
		return nil
	}
	return b.processMessage(ctx, update.Message)
}

func (b *Bot) processMessage(ctx context.Context, msg *telego.Message) error {
	text := msg.Text
	chatID := msg.Chat.ID
	messageID := msg.MessageID

	switch {
	case text == "/start":
		return b.sender.SendText(ctx, chatID, startText, messageID)

	case text == "/help":
		return b.sender.SendText(ctx, chatID, helpText, messageID)

	case text == "/getface":
		return b.handleGetFace(ctx, chatID, messageID)

	case text != "" && msg.ReplyToMessage != nil && len(msg.ReplyToMessage.Photo) > 0:
		return b.handleNameReply(ctx, msg)

	case strings.HasPrefix(text, "/find"):
		name := strings.TrimSpace(strings.TrimPrefix(text, "/find"))
		return b.handleFind(ctx, chatID, messageID, name)

	default:
		return b.sender.SendText(ctx, chatID, unrecognizedText, 0)
	}
}

// handleGetFace presents the first unlabeled face to the chat and records the
// correlation id of the sent photo message. There is no claim step: a
// concurrent /getface may present the same face, and the later send's
// correlation id wins.
func (b *Bot) handleGetFace(ctx context.Context, chatID int64, messageID int) error {
	faceKey, err := b.registry.FindUnlabeled(ctx)
	if err != nil {
		return fmt.Errorf("find unlabeled face: %w", err)
	}
	if faceKey == "" {
		return b.sender.SendText(ctx, chatID, allLabeledText, messageID)
	}

	correlationID, err := b.sender.SendPhoto(ctx, chatID, b.faceURL(faceKey), messageID)
	if err != nil {
		// Without a correlation id there is nothing to persist; the face
		// stays unlabeled and the next /getface picks it up again.
		slog.Warn("send face photo", "face", faceKey, "error", err)
		return nil
	}

	if err := b.registry.SetCorrelation(ctx, faceKey, correlationID); err != nil {
		return fmt.Errorf("store correlation for %s: %w", faceKey, err)
	}

	b.publishEvent(ctx, models.FaceEvent{
		Type:    models.EventFacePresented,
		FaceKey: faceKey,
	})
	return nil
}

// handleNameReply labels the face behind a replied-to photo message. A reply
// whose photo matches no stored correlation id is silently ignored.
func (b *Bot) handleNameReply(ctx context.Context, msg *telego.Message) error {
	photos := msg.ReplyToMessage.Photo
	correlationID := photos[len(photos)-1].FileUniqueID

	faceKey, err := b.registry.FindByCorrelationID(ctx, correlationID)
	if err != nil {
		return fmt.Errorf("resolve correlation %s: %w", correlationID, err)
	}
	if faceKey == "" {
		return nil
	}

	name := msg.Text
	if err := b.registry.SetName(ctx, faceKey, name); err != nil {
		return fmt.Errorf("label face %s: %w", faceKey, err)
	}
	observability.FacesLabeled.Inc()

	b.publishEvent(ctx, models.FaceEvent{
		Type:    models.EventFaceLabeled,
		FaceKey: faceKey,
		Name:    name,
	})

	return b.sender.SendText(ctx, msg.Chat.ID, fmt.Sprintf("Got it, the face is now named %s", name), 0)
}

func (b *Bot) handleFind(ctx context.Context, chatID int64, messageID int, name string) error {
	originals, err := b.registry.FindOriginalsByName(ctx, name)
	if err != nil {
		return fmt.Errorf("find originals for %s: %w", name, err)
	}
	if len(originals) == 0 {
		return b.sender.SendText(ctx, chatID, fmt.Sprintf("No photos found for name %s.", name), messageID)
	}

	urls := make([]string, 0, len(originals))
	for _, key := range originals {
		urls = append(urls, b.originalURL(key))
	}

	if len(urls) == 1 {
		if _, err := b.sender.SendPhoto(ctx, chatID, urls[0], messageID); err != nil {
			return fmt.Errorf("send original photo: %w", err)
		}
		return nil
	}
	return b.sender.SendMediaGroup(ctx, chatID, urls, messageID)
}

func (b *Bot) publishEvent(ctx context.Context, evt models.FaceEvent) {
	if b.events == nil {
		return
	}
	if err := b.events.PublishEvent(ctx, evt); err != nil {
		slog.Warn("publish face event", "type", evt.Type, "face", evt.FaceKey, "error", err)
	}
}

func (b *Bot) faceURL(key string) string {
	return b.publicURL + "/v1/faces/" + key
}

func (b *Bot) originalURL(key string) string {
	return b.publicURL + "/v1/photos/" + key
}
