package router

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/handler"
	"sheworks/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, messageHandler *handler.MessageHandler, authMiddleware *middleware.AuthMiddleware, quota middleware.QuotaChecker) {
	messageGroup := e.Group("/v1/messages")
	messageGroup.Use(authMiddleware.Authenticate)

	rateLimited := middleware.TranslationRateLimit(quota)

	// Translation
	messageGroup.POST("/translate", messageHandler.Translate, rateLimited)
	messageGroup.POST("/translate-interface", messageHandler.TranslateInterface, rateLimited)
	messageGroup.POST("/translate-batch", messageHandler.TranslateBatch)

	// Conversations
	messageGroup.GET("/conversations", messageHandler.GetConversations)
	messageGroup.GET("/conversation/:participantId", messageHandler.GetConversation)
	messageGroup.DELETE("/conversation/:participantId", messageHandler.DeleteConversation)

	// Messages
	messageGroup.POST("/send", messageHandler.SendMessage)
	messageGroup.PUT("/read/:conversationId", messageHandler.MarkConversationRead)
	messageGroup.GET("/unread-count", messageHandler.GetUnreadCount)
	messageGroup.POST("/attachments", messageHandler.UploadAttachment)
}
