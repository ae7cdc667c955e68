package repository

import (
	"context"
	"time"

	"sheworks/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)

	// ListByParticipant returns every message where participantID is sender or recipient, newest first.
	ListByParticipant(ctx context.Context, participantID string) ([]*entity.Message, error)
	// ListBetween returns one page of messages exchanged by exactly a and b, newest first.
	ListBetween(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, int64, error)
	// ListUnreadInConversation returns messages in conversationID addressed to recipientID that are not read.
	ListUnreadInConversation(ctx context.Context, conversationID, recipientID string) ([]*entity.Message, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)

	UpdateStatus(ctx context.Context, id, status string, readAt *time.Time) error
	UpdateTranslation(ctx context.Context, id, translatedText string) error
	DeleteBetween(ctx context.Context, a, b string) (int64, error)
}
