package usecase

import (
	"context"
	"strings"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
	"sheworks/pkg/logger"
)

type OrderUseCase struct {
	orderRepo       repository.OrderRepository
	participantRepo repository.ParticipantRepository
	bridge          *OrderNotificationUseCase
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	participantRepo repository.ParticipantRepository,
	bridge *OrderNotificationUseCase,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:       orderRepo,
		participantRepo: participantRepo,
		bridge:          bridge,
	}
}

type PlaceOrderInput struct {
	BuyerID         string
	BuyerKind       string
	Items           []entity.OrderItem
	ShippingAddress string
}

// PlaceOrder persists the order and then notifies the affected vendors.
// Notification problems never fail the order.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*entity.Order, error) {
	if input.BuyerKind != entity.ParticipantCustomer {
		return nil, errors.Forbidden("Only customers can place orders", nil)
	}
	if len(input.Items) == 0 {
		return nil, errors.BadRequest("Order must contain at least one item", nil)
	}

	total := 0.0
	checked := make(map[string]bool)
	for _, item := range input.Items {
		if strings.TrimSpace(item.VendorID) == "" || strings.TrimSpace(item.ProductID) == "" {
			return nil, errors.BadRequest("Every item needs a product and a vendor", nil)
		}
		if item.Quantity <= 0 {
			return nil, errors.BadRequest("Item quantity must be positive", nil)
		}
		if item.UnitPrice < 0 {
			return nil, errors.BadRequest("Item price cannot be negative", nil)
		}
		if !checked[item.VendorID] {
			if _, err := uc.participantRepo.GetByID(ctx, entity.ParticipantVendor, item.VendorID); err != nil {
				if errors.IsNotFound(err) {
					return nil, errors.NotFound("Vendor", err)
				}
				return nil, err
			}
			checked[item.VendorID] = true
		}
		total += item.Subtotal()
	}

	order := &entity.Order{
		BuyerID:         input.BuyerID,
		Items:           append([]entity.OrderItem{}, input.Items...),
		Total:           total,
		Status:          entity.OrderStatusPlaced,
		ShippingAddress: input.ShippingAddress,
	}
	order.VendorIDs = order.DistinctVendors()

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		logger.Error("PlaceOrder: failed to persist order for buyer %s: %v", input.BuyerID, err)
		return nil, err
	}

	if uc.bridge != nil {
		if _, err := uc.bridge.NotifyOrderPlaced(ctx, order); err != nil {
			logger.Warn("PlaceOrder: vendor notification incomplete for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// GetOrder is visible to the buyer and to every vendor with items in it.
func (uc *OrderUseCase) GetOrder(ctx context.Context, viewerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Involves(viewerID) {
		return nil, errors.Forbidden("You don't have permission to view this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.ListByBuyer(ctx, buyerID, limit, offset)
}
