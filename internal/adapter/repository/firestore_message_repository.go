package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

const messagesCollection = "messages"

var unreadStatuses = []string{entity.MessageStatusSent, entity.MessageStatusDelivered}

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	message.ConversationID = entity.ConversationKey(message.Sender.ID, message.Recipient.ID)
	message.Participants = []string{message.Sender.ID, message.Recipient.ID}

	_, err := r.client.Collection(messagesCollection).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.client.Collection(messagesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreMessageRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Message, error) {
	defer iter.Stop()

	messages := make([]*entity.Message, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message %s: %v", doc.Ref.ID, err)
			continue // Skip bad data instead of failing
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

func (r *firestoreMessageRepository) ListByParticipant(ctx context.Context, participantID string) ([]*entity.Message, error) {
	query := r.client.Collection(messagesCollection).
		Where("participants", "array-contains", participantID).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(query.Documents(ctx))
}

func (r *firestoreMessageRepository) ListBetween(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationId", "==", entity.ConversationKey(a, b)).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting messages between %s and %s: %v", a, b, err)
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *firestoreMessageRepository) ListUnreadInConversation(ctx context.Context, conversationID, recipientID string) ([]*entity.Message, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		Where("recipient.participantId", "==", recipientID).
		Where("status", "in", unreadStatuses)

	return r.collect(query.Documents(ctx))
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	docs, err := r.client.Collection(messagesCollection).
		Where("recipient.participantId", "==", recipientID).
		Where("status", "in", unreadStatuses).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return int64(len(docs)), nil
}

func (r *firestoreMessageRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	_, err := r.client.Collection(messagesCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to update message", err)
	}
	return nil
}

func (r *firestoreMessageRepository) UpdateStatus(ctx context.Context, id, newStatus string, readAt *time.Time) error {
	updates := []firestore.Update{{Path: "status", Value: newStatus}}
	if readAt != nil {
		updates = append(updates, firestore.Update{Path: "readAt", Value: *readAt})
	}
	return r.update(ctx, id, updates)
}

func (r *firestoreMessageRepository) UpdateTranslation(ctx context.Context, id, translatedText string) error {
	return r.update(ctx, id, []firestore.Update{{Path: "translatedText", Value: translatedText}})
}

func (r *firestoreMessageRepository) DeleteBetween(ctx context.Context, a, b string) (int64, error) {
	docs, err := r.client.Collection(messagesCollection).
		Where("conversationId", "==", entity.ConversationKey(a, b)).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query conversation", err)
	}

	var deleted int64
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete message", err)
		}
		deleted++
	}
	return deleted, nil
}
