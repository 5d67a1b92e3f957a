package bot

import "context"

// Sender is the outbound chat surface. SendPhoto returns the platform's
// correlation id for the sent photo message; an empty id means the send did
// not produce a usable correlation and nothing must be persisted for it.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, replyTo int) error
	SendPhoto(ctx context.Context, chatID int64, photoURL string, replyTo int) (string, error)
	SendMediaGroup(ctx context.Context, chatID int64, photoURLs []string, replyTo int) error
}
