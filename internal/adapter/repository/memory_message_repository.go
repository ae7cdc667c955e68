package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

// memoryMessageRepository keeps messages in process memory (development and tests).
type memoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*entity.Message
}

func NewMemoryMessageRepository() repository.MessageRepository {
	return &memoryMessageRepository{
		messages: make(map[string]*entity.Message),
	}
}

func cloneMessage(m *entity.Message) *entity.Message {
	c := *m
	c.Attachments = append([]string(nil), m.Attachments...)
	c.Participants = append([]string(nil), m.Participants...)
	if m.ReadAt != nil {
		t := *m.ReadAt
		c.ReadAt = &t
	}
	return &c
}

func (r *memoryMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	message.ConversationID = entity.ConversationKey(message.Sender.ID, message.Recipient.ID)
	message.Participants = []string{message.Sender.ID, message.Recipient.ID}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[message.ID] = cloneMessage(message)
	return nil
}

func (r *memoryMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	return cloneMessage(m), nil
}

// filter returns matching messages newest first.
func (r *memoryMessageRepository) filter(match func(*entity.Message) bool) []*entity.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Message, 0)
	for _, m := range r.messages {
		if match(m) {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memoryMessageRepository) ListByParticipant(ctx context.Context, participantID string) ([]*entity.Message, error) {
	return r.filter(func(m *entity.Message) bool {
		return m.Sender.ID == participantID || m.Recipient.ID == participantID
	}), nil
}

func (r *memoryMessageRepository) ListBetween(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, int64, error) {
	key := entity.ConversationKey(a, b)
	all := r.filter(func(m *entity.Message) bool { return m.ConversationID == key })

	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Message{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memoryMessageRepository) ListUnreadInConversation(ctx context.Context, conversationID, recipientID string) ([]*entity.Message, error) {
	return r.filter(func(m *entity.Message) bool {
		return m.ConversationID == conversationID && m.IsUnreadFor(recipientID)
	}), nil
}

func (r *memoryMessageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, m := range r.messages {
		if m.Recipient.ID == recipientID &&
			(m.Status == entity.MessageStatusSent || m.Status == entity.MessageStatusDelivered) {
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepository) UpdateStatus(ctx context.Context, id, status string, readAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	m.Status = status
	if readAt != nil {
		t := *readAt
		m.ReadAt = &t
	}
	return nil
}

func (r *memoryMessageRepository) UpdateTranslation(ctx context.Context, id, translatedText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	m.TranslatedText = translatedText
	return nil
}

func (r *memoryMessageRepository) DeleteBetween(ctx context.Context, a, b string) (int64, error) {
	key := entity.ConversationKey(a, b)

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, m := range r.messages {
		if m.ConversationID == key {
			delete(r.messages, id)
			n++
		}
	}
	return n, nil
}
