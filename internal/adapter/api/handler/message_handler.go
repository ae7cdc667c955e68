package handler

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/middleware"
	"sheworks/internal/infrastructure/storage"
	"sheworks/internal/usecase"
	"sheworks/pkg/errors"
	"sheworks/pkg/logger"
	"sheworks/pkg/response"
	"sheworks/pkg/utils"
)

const maxAttachmentSize = 5 * 1024 * 1024

type MessageHandler struct {
	messageUseCase     *usecase.MessageUseCase
	translationUseCase *usecase.TranslationUseCase
	attachments        storage.AttachmentStore
}

func NewMessageHandler(
	messageUseCase *usecase.MessageUseCase,
	translationUseCase *usecase.TranslationUseCase,
	attachments storage.AttachmentStore,
) *MessageHandler {
	return &MessageHandler{
		messageUseCase:     messageUseCase,
		translationUseCase: translationUseCase,
		attachments:        attachments,
	}
}

type translateRequest struct {
	Text     string `json:"text" validate:"required"`
	FromLang string `json:"fromLang"`
	ToLang   string `json:"toLang" validate:"required"`
}

type translateInterfaceRequest struct {
	Texts    []string `json:"texts" validate:"required,min=1,max=100"`
	FromLang string   `json:"fromLang"`
	ToLang   string   `json:"toLang" validate:"required"`
}

type translateBatchRequest struct {
	Messages   []usecase.BatchMessage `json:"messages" validate:"required,min=1,max=100"`
	TargetLang string                 `json:"targetLang" validate:"required"`
}

type sendMessageRequest struct {
	RecipientID   string   `json:"recipientId" validate:"required"`
	RecipientType string   `json:"recipientType" validate:"omitempty,oneof=customer vendor"`
	Message       string   `json:"message"`
	Language      string   `json:"language"`
	Attachments   []string `json:"attachments"`
}

// Translate returns the original text on provider failure, so it only fails
// on bad input or throttling.
func (h *MessageHandler) Translate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	fromLang := req.FromLang
	if fromLang == "" {
		fromLang = "en"
	}

	translated := h.translationUseCase.Translate(c.Request().Context(), req.Text, fromLang, req.ToLang)

	return response.Success(c, map[string]string{
		"translatedText": translated,
		"originalText":   req.Text,
		"fromLang":       fromLang,
		"toLang":         req.ToLang,
	})
}

func (h *MessageHandler) TranslateInterface(c echo.Context) error {
	var req translateInterfaceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	translations := h.translationUseCase.TranslateInterface(c.Request().Context(), req.Texts, req.FromLang, req.ToLang)

	return response.Success(c, map[string]interface{}{
		"translations": translations,
	})
}

func (h *MessageHandler) TranslateBatch(c echo.Context) error {
	var req translateBatchRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	translated := h.translationUseCase.TranslateBatch(c.Request().Context(), req.Messages, req.TargetLang)

	return response.Success(c, map[string]interface{}{
		"translatedMessages": translated,
	})
}

func (h *MessageHandler) GetConversations(c echo.Context) error {
	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

// GetConversation returns one page with the peer and marks it read for the caller.
func (h *MessageHandler) GetConversation(c echo.Context) error {
	params := utils.GetPaginationParams(c, 50, 200)

	page, err := h.messageUseCase.GetConversation(c.Request().Context(), usecase.GetConversationInput{
		ViewerID:   middleware.UID(c),
		ViewerKind: middleware.Kind(c),
		PeerID:     c.Param("participantId"),
		Limit:      params.Limit,
		Offset:     params.Offset,
		Language:   c.QueryParam("lang"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, page.Messages, page.Total, page.Limit, page.Offset)
}

func (h *MessageHandler) DeleteConversation(c echo.Context) error {
	deleted, err := h.messageUseCase.DeleteConversation(c.Request().Context(), middleware.UID(c), c.Param("participantId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"deletedCount": deleted,
	})
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		SenderID:      middleware.UID(c),
		SenderKind:    middleware.Kind(c),
		RecipientID:   req.RecipientID,
		RecipientKind: req.RecipientType,
		Text:          req.Message,
		Language:      req.Language,
		Attachments:   req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	marked, err := h.messageUseCase.MarkConversationRead(c.Request().Context(), middleware.UID(c), c.Param("conversationId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"markedCount": marked,
	})
}

func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.messageUseCase.UnreadCount(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"unreadCount": count,
	})
}

// UploadAttachment stores one multipart "file" and returns its URL for use in
// a later send.
func (h *MessageHandler) UploadAttachment(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > maxAttachmentSize {
		return response.Error(c, errors.BadRequest("File size exceeds maximum allowed (5MB)", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !storage.IsAllowedType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	url, err := h.attachments.Upload(c.Request().Context(), src, contentType, middleware.UID(c))
	if err != nil {
		logger.Error("UploadAttachment: %v", err)
		return response.Error(c, errors.Internal("Failed to store attachment", err))
	}

	return response.Created(c, map[string]interface{}{
		"url":         url,
		"contentType": contentType,
		"size":        file.Size,
	})
}
