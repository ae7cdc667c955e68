package router

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/handler"
	"sheworks/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	orderGroup := e.Group("/v1/orders")
	orderGroup.Use(authMiddleware.Authenticate)

	orderGroup.POST("", orderHandler.PlaceOrder)
	orderGroup.GET("", orderHandler.ListOrders)
	orderGroup.GET("/:id", orderHandler.GetOrder)
}

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notificationGroup := e.Group("/v1/notifications")
	notificationGroup.Use(authMiddleware.Authenticate)

	notificationGroup.GET("", notificationHandler.ListNotifications)
	notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
}

func SetupParticipantRouter(e *echo.Echo, participantHandler *handler.ParticipantHandler, authMiddleware *middleware.AuthMiddleware) {
	participantGroup := e.Group("/v1/participants")
	participantGroup.Use(authMiddleware.Authenticate)

	participantGroup.GET("/me", participantHandler.GetMe)
}
