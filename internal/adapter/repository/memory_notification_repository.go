package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type memoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*entity.Notification
}

func NewMemoryNotificationRepository() repository.NotificationRepository {
	return &memoryNotificationRepository{
		notifications: make(map[string]*entity.Notification),
	}
}

func (r *memoryNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n := *notification
	r.notifications[n.ID] = &n
	return nil
}

func (r *memoryNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	out := *n
	return &out, nil
}

func (r *memoryNotificationRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.RLock()
	all := make([]*entity.Notification, 0)
	for _, n := range r.notifications {
		if n.OwnerID == ownerID {
			c := *n
			all = append(all, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Notification{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memoryNotificationRepository) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	n.Read = true
	return nil
}
