package usecase

import (
	"context"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type ParticipantUseCase struct {
	participantRepo repository.ParticipantRepository
}

func NewParticipantUseCase(participantRepo repository.ParticipantRepository) *ParticipantUseCase {
	return &ParticipantUseCase{participantRepo: participantRepo}
}

type EnsureParticipantInput struct {
	ID                string
	Kind              string
	Name              string
	Email             string
	PreferredLanguage string
}

// EnsureParticipant returns the existing participant or creates it.
func (uc *ParticipantUseCase) EnsureParticipant(ctx context.Context, input EnsureParticipantInput) (*entity.Participant, error) {
	if !entity.IsParticipantKind(input.Kind) {
		return nil, errors.BadRequest("Participant kind must be customer or vendor", nil)
	}

	if input.ID != "" {
		existing, err := uc.participantRepo.GetByID(ctx, input.Kind, input.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	participant := &entity.Participant{
		ID:                input.ID,
		Kind:              input.Kind,
		Name:              input.Name,
		Email:             input.Email,
		PreferredLanguage: input.PreferredLanguage,
	}
	if err := uc.participantRepo.Create(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

func (uc *ParticipantUseCase) GetParticipant(ctx context.Context, kind, id string) (*entity.Participant, error) {
	return uc.participantRepo.GetByID(ctx, kind, id)
}
