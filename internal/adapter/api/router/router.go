package router

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/handler"
	"sheworks/internal/adapter/api/middleware"
)

// Handlers groups everything the router mounts. DevToken is nil outside development.
type Handlers struct {
	Message      *handler.MessageHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
	Participant  *handler.ParticipantHandler
	WebSocket    *handler.WebSocketHandler
	Health       *handler.HealthHandler
	DevToken     *handler.DevTokenHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, quota middleware.QuotaChecker) {
	SetupMessageRouter(e, h.Message, authMiddleware, quota)
	SetupOrderRouter(e, h.Order, authMiddleware)
	SetupNotificationRouter(e, h.Notification, authMiddleware)
	SetupParticipantRouter(e, h.Participant, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
	if h.DevToken != nil {
		SetupDevRouter(e, h.DevToken)
	}
}
