package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramSender implements Sender on top of the Telegram Bot API.
type TelegramSender struct {
	bot *telego.Bot
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	b, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSender{bot: b}, nil
}

func (s *TelegramSender) SendText(ctx context.Context, chatID int64, text string, replyTo int) error {
	params := &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	}
	if replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: replyTo}
	}
	if _, err := s.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendPhoto sends a photo by URL and returns the file_unique_id of the
// largest size variant Telegram stored. That id is what a later reply to the
// photo message carries, so it serves as the correlation id.
func (s *TelegramSender) SendPhoto(ctx context.Context, chatID int64, photoURL string, replyTo int) (string, error) {
	params := &telego.SendPhotoParams{
		ChatID: tu.ID(chatID),
		Photo:  tu.FileFromURL(photoURL),
	}
	if replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: replyTo}
	}

	msg, err := s.bot.SendPhoto(ctx, params)
	if err != nil {
		return "", fmt.Errorf("send photo to chat %d: %w", chatID, err)
	}
	if len(msg.Photo) == 0 {
		return "", fmt.Errorf("send photo to chat %d: response carries no photo sizes", chatID)
	}
	return msg.Photo[len(msg.Photo)-1].FileUniqueID, nil
}

func (s *TelegramSender) SendMediaGroup(ctx context.Context, chatID int64, photoURLs []string, replyTo int) error {
	media := make([]telego.InputMedia, 0, len(photoURLs))
	for _, url := range photoURLs {
		media = append(media, tu.MediaPhoto(tu.FileFromURL(url)))
	}

	params := &telego.SendMediaGroupParams{
		ChatID: tu.ID(chatID),
		Media:  media,
	}
	if replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: replyTo}
	}
	if _, err := s.bot.SendMediaGroup(ctx, params); err != nil {
		return fmt.Errorf("send media group to chat %d: %w", chatID, err)
	}
	return nil
}
