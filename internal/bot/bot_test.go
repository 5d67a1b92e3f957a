package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mymmrac/telego"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/registry"
	"github.com/your-org/facetag/internal/storage"
)

const testBucket = "faces"

type sentText struct {
	chatID  int64
	text    string
	replyTo int
}

type sentPhoto struct {
	chatID  int64
	url     string
	replyTo int
}

type fakeSender struct {
	texts       []sentText
	photos      []sentPhoto
	mediaGroups [][]string

	photoID  string // correlation id returned by SendPhoto
	photoErr error
}

func (s *fakeSender) SendText(ctx context.Context, chatID int64, text string, replyTo int) error {
	s.texts = append(s.texts, sentText{chatID, text, replyTo})
	return nil
}

func (s *fakeSender) SendPhoto(ctx context.Context, chatID int64, photoURL string, replyTo int) (string, error) {
	if s.photoErr != nil {
		return "", s.photoErr
	}
	s.photos = append(s.photos, sentPhoto{chatID, photoURL, replyTo})
	return s.photoID, nil
}

func (s *fakeSender) SendMediaGroup(ctx context.Context, chatID int64, photoURLs []string, replyTo int) error {
	s.mediaGroups = append(s.mediaGroups, photoURLs)
	return nil
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *registry.FaceRegistry, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	reg := registry.New(store, testBucket)
	sender := &fakeSender{photoID: "AQAD-default"}
	b := New(reg, sender, nil, "https://faces.example.com")
	return b, sender, reg, store
}

func putFace(t *testing.T, store *storage.MemoryStore, key string, meta map[string]string) {
	t.Helper()
	if err := store.PutObject(context.Background(), testBucket, key, []byte("jpeg"), "image/jpeg", meta); err != nil {
		t.Fatal(err)
	}
}

func textUpdate(text string) telego.Update {
	return telego.Update{Message: &telego.Message{
		MessageID: 7,
		Text:      text,
		Chat:      telego.Chat{ID: 42},
	}}
}

func replyUpdate(text, fileUniqueID string) telego.Update {
	return telego.Update{Message: &telego.Message{
		MessageID: 8,
		Text:      text,
		Chat:      telego.Chat{ID: 42},
		ReplyToMessage: &telego.Message{
			Photo: []telego.PhotoSize{
				{FileUniqueID: "small-" + fileUniqueID},
				{FileUniqueID: fileUniqueID},
			},
		},
	}}
}

func TestStaticReplies(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", startText},
		{"/help", helpText},
		{"hello there", unrecognizedText},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			b, sender, _, _ := newTestBot(t)
			if err := b.HandleUpdate(context.Background(), textUpdate(tc.text)); err != nil {
				t.Fatalf("HandleUpdate failed: %v", err)
			}
			if len(sender.texts) != 1 {
				t.Fatalf("got %d texts, want 1", len(sender.texts))
			}
			if sender.texts[0].text != tc.want {
				t.Errorf("got %q, want %q", sender.texts[0].text, tc.want)
			}
		})
	}
}

func TestUpdateWithoutMessage(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	if err := b.HandleUpdate(context.Background(), telego.Update{}); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if len(sender.texts) != 0 {
		t.Errorf("expected no replies, got %v", sender.texts)
	}
}

func TestGetFacePresentsAndCorrelates(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	ctx := context.Background()
	putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1"})
	sender.photoID = "AQAD123"

	if err := b.HandleUpdate(ctx, textUpdate("/getface")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	if len(sender.photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(sender.photos))
	}
	if want := "https://faces.example.com/v1/faces/f1.jpg"; sender.photos[0].url != want {
		t.Errorf("photo url: got %q, want %q", sender.photos[0].url, want)
	}
	if sender.photos[0].replyTo != 7 {
		t.Errorf("photo replyTo: got %d, want 7", sender.photos[0].replyTo)
	}

	meta, err := store.GetMetadata(ctx, testBucket, "f1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if meta[models.MetaCorrelation] != "AQAD123" {
		t.Errorf("correlation id: got %q, want %q", meta[models.MetaCorrelation], "AQAD123")
	}
	if meta[models.MetaOriginal] != "p1" {
		t.Errorf("Original not preserved: got %q", meta[models.MetaOriginal])
	}
}

func TestGetFaceAllLabeled(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1", models.MetaName: "Alice"})

	if err := b.HandleUpdate(context.Background(), textUpdate("/getface")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if len(sender.photos) != 0 {
		t.Errorf("no photo should be sent, got %v", sender.photos)
	}
	if len(sender.texts) != 1 || sender.texts[0].text != allLabeledText {
		t.Errorf("expected %q, got %v", allLabeledText, sender.texts)
	}
}

func TestGetFaceSendFailureSkipsCorrelation(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	ctx := context.Background()
	putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1"})
	sender.photoErr = errors.New("telegram unavailable")

	// The handler must not escalate a send failure; the face simply stays
	// unpresented.
	if err := b.HandleUpdate(ctx, textUpdate("/getface")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	meta, err := store.GetMetadata(ctx, testBucket, "f1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if meta[models.MetaCorrelation] != "" {
		t.Errorf("no correlation must be persisted on send failure, got %q", meta[models.MetaCorrelation])
	}
}

func TestNameReplyLabelsFace(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	ctx := context.Background()
	putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1", models.MetaCorrelation: "AQAD123"})

	if err := b.HandleUpdate(ctx, replyUpdate("Alice", "AQAD123")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	meta, err := store.GetMetadata(ctx, testBucket, "f1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if meta[models.MetaName] != "Alice" {
		t.Errorf("Name: got %q, want %q", meta[models.MetaName], "Alice")
	}
	if len(sender.texts) != 1 || !strings.Contains(sender.texts[0].text, "Alice") {
		t.Errorf("expected confirmation mentioning Alice, got %v", sender.texts)
	}
}

func TestNameReplyNoMatchIsSilent(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	ctx := context.Background()
	putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1", models.MetaCorrelation: "AQAD123"})

	if err := b.HandleUpdate(ctx, replyUpdate("Alice", "unknown-id")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}

	meta, err := store.GetMetadata(ctx, testBucket, "f1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if meta[models.MetaName] != "" {
		t.Errorf("no metadata mutation expected, got Name=%q", meta[models.MetaName])
	}
	if len(sender.texts) != 0 || len(sender.photos) != 0 {
		t.Errorf("expected silence, got texts=%v photos=%v", sender.texts, sender.photos)
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Bot, *fakeSender, *storage.MemoryStore) {
		b, sender, _, store := newTestBot(t)
		putFace(t, store, "f1.jpg", map[string]string{models.MetaOriginal: "p1", models.MetaName: "Bob"})
		putFace(t, store, "f2.jpg", map[string]string{models.MetaOriginal: "p2", models.MetaName: "Bob"})
		putFace(t, store, "f3.jpg", map[string]string{models.MetaOriginal: "p3", models.MetaName: "Alice"})
		return b, sender, store
	}

	t.Run("multiple matches", func(t *testing.T) {
		b, sender, _ := setup(t)
		if err := b.HandleUpdate(ctx, textUpdate("/find Bob")); err != nil {
			t.Fatalf("HandleUpdate failed: %v", err)
		}
		if len(sender.mediaGroups) != 1 {
			t.Fatalf("got %d media groups, want 1", len(sender.mediaGroups))
		}
		if len(sender.mediaGroups[0]) != 2 {
			t.Errorf("got %d items, want 2", len(sender.mediaGroups[0]))
		}
	})

	t.Run("single match", func(t *testing.T) {
		b, sender, _ := setup(t)
		if err := b.HandleUpdate(ctx, textUpdate("/find Alice")); err != nil {
			t.Fatalf("HandleUpdate failed: %v", err)
		}
		if len(sender.mediaGroups) != 0 {
			t.Errorf("single match must not use a media group")
		}
		if len(sender.photos) != 1 {
			t.Fatalf("got %d photos, want 1", len(sender.photos))
		}
		if want := "https://faces.example.com/v1/photos/p3"; sender.photos[0].url != want {
			t.Errorf("photo url: got %q, want %q", sender.photos[0].url, want)
		}
	})

	t.Run("no match", func(t *testing.T) {
		b, sender, _ := setup(t)
		if err := b.HandleUpdate(ctx, textUpdate("/find Carl")); err != nil {
			t.Fatalf("HandleUpdate failed: %v", err)
		}
		if len(sender.texts) != 1 || !strings.Contains(sender.texts[0].text, "Carl") {
			t.Errorf("expected not-found text mentioning Carl, got %v", sender.texts)
		}
	})

	t.Run("bare find", func(t *testing.T) {
		b, sender, store := setup(t)
		putFace(t, store, "f4.jpg", map[string]string{models.MetaOriginal: "p4"})
		if err := b.HandleUpdate(ctx, textUpdate("/find")); err != nil {
			t.Fatalf("HandleUpdate failed: %v", err)
		}
		if len(sender.photos) != 0 || len(sender.mediaGroups) != 0 {
			t.Errorf("empty name must not match unlabeled faces: photos=%v groups=%v",
				sender.photos, sender.mediaGroups)
		}
		if len(sender.texts) != 1 || !strings.Contains(sender.texts[0].text, "No photos found") {
			t.Errorf("expected not-found text, got %v", sender.texts)
		}
	})
}
