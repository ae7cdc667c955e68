package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type memoryParticipantRepository struct {
	mu     sync.RWMutex
	byKind map[string]map[string]*entity.Participant
}

func NewMemoryParticipantRepository() repository.ParticipantRepository {
	return &memoryParticipantRepository{
		byKind: map[string]map[string]*entity.Participant{
			entity.ParticipantCustomer: {},
			entity.ParticipantVendor:   {},
		},
	}
}

func (r *memoryParticipantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	if !entity.IsParticipantKind(participant.Kind) {
		return errors.BadRequest("Unknown participant kind", nil)
	}
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p := *participant
	r.byKind[participant.Kind][participant.ID] = &p
	return nil
}

func (r *memoryParticipantRepository) GetByID(ctx context.Context, kind, id string) (*entity.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.byKind[kind]
	if !ok {
		return nil, errors.NotFound("Participant", nil)
	}
	p, ok := table[id]
	if !ok {
		return nil, errors.NotFound("Participant", nil)
	}
	out := *p
	return &out, nil
}
