package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"sheworks/internal/infrastructure/auth"
	"sheworks/pkg/errors"
	"sheworks/pkg/response"
)

// Context keys set on authenticated requests.
const (
	ContextUID  = "uid"
	ContextKind = "kind"
)

type AuthMiddleware struct {
	verifier auth.TokenVerifier
}

func NewAuthMiddleware(verifier auth.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		identity, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUID, identity.UID)
		c.Set(ContextKind, identity.Kind)

		return next(c)
	}
}

// UID returns the authenticated participant id, or "" on public routes.
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

// Kind returns the participant kind carried by the token, which may be empty.
func Kind(c echo.Context) string {
	kind, _ := c.Get(ContextKind).(string)
	return kind
}
