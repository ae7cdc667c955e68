package handler

import (
	"github.com/labstack/echo/v4"

	"sheworks/internal/adapter/api/middleware"
	"sheworks/internal/domain/entity"
	"sheworks/internal/usecase"
	"sheworks/pkg/errors"
	"sheworks/pkg/response"
	"sheworks/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type orderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	VendorID  string  `json:"vendor_id" validate:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" validate:"min=0"`
}

type placeOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address"`
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.OrderItem{
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderUseCase.PlaceOrder(c.Request().Context(), usecase.PlaceOrderInput{
		BuyerID:         middleware.UID(c),
		BuyerKind:       middleware.Kind(c),
		Items:           items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderUseCase.GetOrder(c.Request().Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	params := utils.GetPaginationParams(c, 20, 100)

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), middleware.UID(c), params.Limit, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, orders, total, params.Limit, params.Offset)
}
