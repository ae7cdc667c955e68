package handler

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/middleware"
	"sheworks/internal/usecase"
	"sheworks/pkg/response"
	"sheworks/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	params := utils.GetPaginationParams(c, 20, 100)

	notifications, total, err := h.notificationUseCase.ListNotifications(c.Request().Context(), middleware.UID(c), params.Limit, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, notifications, total, params.Limit, params.Offset)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notification, err := h.notificationUseCase.MarkRead(c.Request().Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, notification)
}
