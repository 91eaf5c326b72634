package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/service"
)

type OrderService interface {
	ListOrders(ctx context.Context) ([]entity.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	PlaceOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id string) (int64, error)
	UpdateOrder(ctx context.Context, id string, req *entity.UpdateOrderRequest) (*entity.UpdateResult, error)
}

type OrderHandler struct {
	orderService OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListUserOrders handles GET /orders/user?email=
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	orders, err := h.orderService.ListOrdersByEmail(c.Request.Context(), email)
	if err != nil {
		respondInternal(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid order ID")
			return
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondInternal(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// PlaceOrder handles POST /orders/add
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondInternal(c, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, entity.InsertResponse{Acknowledged: true, InsertedID: order.ID})
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	deleted, err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid order ID")
			return
		}
		respondInternal(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, entity.DeleteResponse{Acknowledged: true, DeletedCount: deleted})
}

// UpdateOrder handles PUT /orders/:id. Unknown ids are created.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req entity.UpdateOrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	result, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid order ID")
			return
		}
		respondInternal(c, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, entity.NewUpdateResponse(result))
}
