package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

// Customers and vendors live in separate collections, named after the kind.
type firestoreParticipantRepository struct {
	client *firestore.Client
}

func NewFirestoreParticipantRepository(client *firestore.Client) repository.ParticipantRepository {
	return &firestoreParticipantRepository{
		client: client,
	}
}

func participantCollection(kind string) string {
	return kind + "s"
}

func (r *firestoreParticipantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	if !entity.IsParticipantKind(participant.Kind) {
		return errors.BadRequest("Unknown participant kind", nil)
	}
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	participant.CreatedAt = time.Now()

	_, err := r.client.Collection(participantCollection(participant.Kind)).Doc(participant.ID).Set(ctx, participant)
	if err != nil {
		return errors.Internal("Failed to create participant", err)
	}
	return nil
}

func (r *firestoreParticipantRepository) GetByID(ctx context.Context, kind, id string) (*entity.Participant, error) {
	if !entity.IsParticipantKind(kind) {
		return nil, errors.NotFound("Participant", nil)
	}

	doc, err := r.client.Collection(participantCollection(kind)).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Participant", err)
		}
		return nil, errors.Internal("Failed to get participant", err)
	}

	var participant entity.Participant
	if err := doc.DataTo(&participant); err != nil {
		return nil, errors.Internal("Failed to parse participant data", err)
	}
	participant.ID = doc.Ref.ID
	participant.Kind = kind
	return &participant, nil
}
