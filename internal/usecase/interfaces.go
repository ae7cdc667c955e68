package usecase

import "context"

// Realtime event names pushed from use cases.
const (
	EventNewMessage  = "new_message"
	EventOrderPlaced = "order_placed"
)

// Notifier pushes an event to a participant's live connection, if it has one.
// It reports whether the event was handed to a connection.
type Notifier interface {
	NotifyParticipant(ctx context.Context, participantID, kind, event string, data interface{}) (bool, error)
}

// Translator is the part of TranslationUseCase that other use cases depend on.
type Translator interface {
	CheckRateLimit(ctx context.Context, identity string) error
	TranslateBatch(ctx context.Context, messages []BatchMessage, targetLang string) []TranslatedMessage
}

// AttachmentRemover deletes uploaded files by the URL Upload returned.
type AttachmentRemover interface {
	Delete(ctx context.Context, fileURL string) error
}
