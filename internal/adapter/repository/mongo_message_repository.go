package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messagesCollection),
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (r *mongoMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	message.ConversationID = entity.ConversationKey(message.Sender.ID, message.Recipient.ID)
	message.Participants = []string{message.Sender.ID, message.Recipient.ID}

	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *mongoMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var message entity.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Message", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get message", err)
	}
	return &message, nil
}

func (r *mongoMessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Message, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Internal("Failed to query messages", err)
	}
	defer cursor.Close(ctx)

	messages := make([]*entity.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Internal("Failed to decode messages", err)
	}
	return messages, nil
}

func (r *mongoMessageRepository) ListByParticipant(ctx context.Context, participantID string) ([]*entity.Message, error) {
	return r.find(ctx, bson.M{"participants": participantID}, options.Find().SetSort(newestFirst))
}

func (r *mongoMessageRepository) ListBetween(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, int64, error) {
	filter := bson.M{"conversation_id": entity.ConversationKey(a, b)}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}

	opts := options.Find().SetSort(newestFirst).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	messages, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func unreadFilter(recipientID string) bson.M {
	return bson.M{
		"recipient.participant_id": recipientID,
		"status":                   bson.M{"$in": unreadStatuses},
	}
}

func (r *mongoMessageRepository) ListUnreadInConversation(ctx context.Context, conversationID, recipientID string) ([]*entity.Message, error) {
	filter := unreadFilter(recipientID)
	filter["conversation_id"] = conversationID
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *mongoMessageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, unreadFilter(recipientID))
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return n, nil
}

func (r *mongoMessageRepository) update(ctx context.Context, id string, set bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Internal("Failed to update message", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Message", nil)
	}
	return nil
}

func (r *mongoMessageRepository) UpdateStatus(ctx context.Context, id, status string, readAt *time.Time) error {
	set := bson.M{"status": status}
	if readAt != nil {
		set["read_at"] = *readAt
	}
	return r.update(ctx, id, set)
}

func (r *mongoMessageRepository) UpdateTranslation(ctx context.Context, id, translatedText string) error {
	return r.update(ctx, id, bson.M{"translated_text": translatedText})
}

func (r *mongoMessageRepository) DeleteBetween(ctx context.Context, a, b string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"conversation_id": entity.ConversationKey(a, b)})
	if err != nil {
		return 0, errors.Internal("Failed to delete conversation", err)
	}
	return res.DeletedCount, nil
}
