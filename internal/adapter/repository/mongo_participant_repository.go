package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type mongoParticipantRepository struct {
	db *mongo.Database
}

func NewMongoParticipantRepository(db *mongo.Database) repository.ParticipantRepository {
	return &mongoParticipantRepository{db: db}
}

func (r *mongoParticipantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	if !entity.IsParticipantKind(participant.Kind) {
		return errors.BadRequest("Unknown participant kind", nil)
	}
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	participant.CreatedAt = time.Now()

	if _, err := r.db.Collection(participantCollection(participant.Kind)).InsertOne(ctx, participant); err != nil {
		return errors.Internal("Failed to create participant", err)
	}
	return nil
}

func (r *mongoParticipantRepository) GetByID(ctx context.Context, kind, id string) (*entity.Participant, error) {
	if !entity.IsParticipantKind(kind) {
		return nil, errors.NotFound("Participant", nil)
	}

	var participant entity.Participant
	err := r.db.Collection(participantCollection(kind)).FindOne(ctx, bson.M{"_id": id}).Decode(&participant)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Participant", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get participant", err)
	}
	participant.Kind = kind
	return &participant, nil
}
