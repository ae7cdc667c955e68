package usecase

import (
	"context"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, ownerID, notificationID string) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.OwnerID != ownerID {
		return nil, errors.Forbidden("You don't have permission to update this notification", nil)
	}

	if notification.Read {
		return notification, nil
	}
	if err := uc.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	notification.Read = true
	return notification, nil
}
