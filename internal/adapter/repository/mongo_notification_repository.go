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

type mongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{collection: db.Collection("notifications")}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *mongoNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Notification", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get notification", err)
	}
	return &notification, nil
}

func (r *mongoNotificationRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Notification, int64, error) {
	filter := bson.M{"owner_id": ownerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count notifications", err)
	}

	opts := options.Find().SetSort(newestFirst).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch notifications", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*entity.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, errors.Internal("Failed to decode notifications", err)
	}
	return notifications, total, nil
}

func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return errors.Internal("Failed to update notification", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Notification", nil)
	}
	return nil
}
