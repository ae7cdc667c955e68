package repository

import (
	"context"

	"sheworks/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
}
