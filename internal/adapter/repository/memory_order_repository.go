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

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*entity.Order
}

func NewMemoryOrderRepository() repository.OrderRepository {
	return &memoryOrderRepository{
		orders: make(map[string]*entity.Order),
	}
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	c.VendorIDs = append([]string(nil), o.VendorIDs...)
	return &c
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	return cloneOrder(o), nil
}

func (r *memoryOrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Order, int64, error) {
	r.mu.RLock()
	all := make([]*entity.Order, 0)
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			all = append(all, cloneOrder(o))
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Order{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}
