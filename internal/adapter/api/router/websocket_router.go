package router

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/handler"
)

// SetupWebSocketRouter mounts /ws without HTTP auth; the authenticate event carries the token.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
}

func SetupDevRouter(e *echo.Echo, devTokenHandler *handler.DevTokenHandler) {
	e.POST("/_dev/token", devTokenHandler.IssueToken)
}
