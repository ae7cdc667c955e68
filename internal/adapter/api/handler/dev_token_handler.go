package handler

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/infrastructure/auth"
	"sheworks/internal/usecase"
	"sheworks/pkg/errors"
	"sheworks/pkg/response"
)

type DevTokenHandler struct {
	issuer             auth.TokenIssuer
	participantUseCase *usecase.ParticipantUseCase
}

func NewDevTokenHandler(issuer auth.TokenIssuer, participantUseCase *usecase.ParticipantUseCase) *DevTokenHandler {
	return &DevTokenHandler{
		issuer:             issuer,
		participantUseCase: participantUseCase,
	}
}

type devTokenRequest struct {
	ID                string `json:"id"`
	Kind              string `json:"kind" validate:"required,oneof=customer vendor"`
	Name              string `json:"name"`
	Email             string `json:"email" validate:"omitempty,email"`
	PreferredLanguage string `json:"preferred_language"`
}

// IssueToken creates the participant when it does not exist yet and returns a
// bearer token for it.
func (h *DevTokenHandler) IssueToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	participant, err := h.participantUseCase.EnsureParticipant(c.Request().Context(), usecase.EnsureParticipantInput{
		ID:                req.ID,
		Kind:              req.Kind,
		Name:              req.Name,
		Email:             req.Email,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	token, err := h.issuer.IssueToken(c.Request().Context(), participant.ID, participant.Kind)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to issue token", err))
	}

	return response.Success(c, map[string]interface{}{
		"token":       token,
		"participant": participant,
	})
}
