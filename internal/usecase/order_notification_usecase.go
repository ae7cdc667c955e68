package usecase

import (
	"context"
	"fmt"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/internal/infrastructure/events"
	"sheworks/pkg/logger"
)

// OrderNotificationUseCase fans a placed order out to every vendor it touches.
// Live delivery is best effort; the stored notification is what an offline
// vendor sees on next login.
type OrderNotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	notifier         Notifier
	publisher        events.Publisher
}

func NewOrderNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	notifier Notifier,
	publisher events.Publisher,
) *OrderNotificationUseCase {
	if publisher == nil {
		publisher = events.NewFallback()
	}
	return &OrderNotificationUseCase{
		notificationRepo: notificationRepo,
		notifier:         notifier,
		publisher:        publisher,
	}
}

type OrderSummary struct {
	BuyerID        string             `json:"buyerId"`
	Items          []entity.OrderItem `json:"items"`
	VendorSubtotal float64            `json:"vendorSubtotal"`
	Total          float64            `json:"total"`
}

// OrderPlacedEvent is the realtime payload sent to one vendor.
type OrderPlacedEvent struct {
	OrderID      string       `json:"orderId"`
	VendorID     string       `json:"vendorId"`
	Message      string       `json:"message"`
	OrderSummary OrderSummary `json:"orderSummary"`
}

type FanOutResult struct {
	Vendors       []string `json:"vendors"`
	LiveDelivered []string `json:"liveDelivered"`
	Notifications int      `json:"notifications"`
}

// NotifyOrderPlaced must be called after the order is persisted. A failed live
// emit is logged and never retried. Notification write failures are reported
// after every vendor has been attempted.
func (uc *OrderNotificationUseCase) NotifyOrderPlaced(ctx context.Context, order *entity.Order) (*FanOutResult, error) {
	byVendor := order.ItemsByVendor()
	result := &FanOutResult{
		Vendors:       order.DistinctVendors(),
		LiveDelivered: make([]string, 0),
	}

	var firstErr error
	for _, vendorID := range result.Vendors {
		items := byVendor[vendorID]
		subtotal := 0.0
		for _, item := range items {
			subtotal += item.Subtotal()
		}

		event := OrderPlacedEvent{
			OrderID:  order.ID,
			VendorID: vendorID,
			Message:  "You have a new order!",
			OrderSummary: OrderSummary{
				BuyerID:        order.BuyerID,
				Items:          items,
				VendorSubtotal: subtotal,
				Total:          order.Total,
			},
		}

		if uc.notifier != nil {
			delivered, err := uc.notifier.NotifyParticipant(ctx, vendorID, entity.ParticipantVendor, EventOrderPlaced, event)
			if err != nil {
				logger.Warn("NotifyOrderPlaced: live emit to vendor %s failed: %v", vendorID, err)
			}
			if delivered {
				result.LiveDelivered = append(result.LiveDelivered, vendorID)
			}
		}

		notification := &entity.Notification{
			OwnerID:   vendorID,
			OwnerKind: entity.ParticipantVendor,
			Kind:      entity.NotificationKindOrderPlaced,
			Text:      fmt.Sprintf("New order %s with %d item(s)", order.ID, len(items)),
			Payload: map[string]interface{}{
				"orderId":        order.ID,
				"buyerId":        order.BuyerID,
				"itemCount":      len(items),
				"vendorSubtotal": subtotal,
				"total":          order.Total,
			},
		}
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			logger.Error("NotifyOrderPlaced: failed to store notification for vendor %s: %v", vendorID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.Notifications++
	}

	if err := uc.publisher.Publish(ctx, "orders.placed", events.NewEnvelope(events.TypeOrderPlaced, order)); err != nil {
		logger.Warn("NotifyOrderPlaced: failed to publish event for %s: %v", order.ID, err)
	}

	return result, firstErr
}
