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

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Order", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get order", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Order, int64, error) {
	filter := bson.M{"buyer_id": buyerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count orders", err)
	}

	opts := options.Find().SetSort(newestFirst).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch orders", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*entity.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, errors.Internal("Failed to decode orders", err)
	}
	return orders, total, nil
}
