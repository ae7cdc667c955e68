package handler

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/middleware"
	"sheworks/internal/domain/entity"
	"sheworks/internal/usecase"
	"sheworks/pkg/errors"
	"sheworks/pkg/response"
)

type ParticipantHandler struct {
	participantUseCase *usecase.ParticipantUseCase
}

func NewParticipantHandler(participantUseCase *usecase.ParticipantUseCase) *ParticipantHandler {
	return &ParticipantHandler{
		participantUseCase: participantUseCase,
	}
}

// GetMe looks the caller up under the kind carried by the token, or under
// each kind in turn when the token has none.
func (h *ParticipantHandler) GetMe(c echo.Context) error {
	kinds := []string{entity.ParticipantCustomer, entity.ParticipantVendor}
	if kind := middleware.Kind(c); entity.IsParticipantKind(kind) {
		kinds = []string{kind}
	}

	for _, kind := range kinds {
		participant, err := h.participantUseCase.GetParticipant(c.Request().Context(), kind, middleware.UID(c))
		if err == nil {
			return response.Success(c, participant)
		}
		if !errors.IsNotFound(err) {
			return response.Error(c, err)
		}
	}

	return response.Error(c, errors.NotFound("Participant", nil))
}
