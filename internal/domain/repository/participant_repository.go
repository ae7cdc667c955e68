package repository

import (
	"context"

	"sheworks/internal/domain/entity"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *entity.Participant) error
	// GetByID looks the id up in the collection for kind only.
	GetByID(ctx context.Context, kind, id string) (*entity.Participant, error)
}
