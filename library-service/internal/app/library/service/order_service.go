package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/pkg/metrics"
)

type OrderService struct {
	orderRepo repository.OrderRepository
	publisher infrastructure.MessagePublisher
	now       func() time.Time
}

// NewOrderService creates the order service.
func NewOrderService(orderRepo repository.OrderRepository, publisher infrastructure.MessagePublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// ListOrders returns all orders.
func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListOrdersByEmail returns the orders placed with the given email.
func (s *OrderService) ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for %s: %w", email, err)
	}

	return orders, nil
}

// GetOrder returns a single order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// PlaceOrder stores a new order, stamping the date and defaulting the
// status to pending.
func (s *OrderService) PlaceOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	placedAt := s.now().UTC()

	status := req.OrderStatus
	if status == "" {
		status = entity.OrderStatusPending
	}

	order := &entity.Order{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		Phone:       req.Phone,
		OrderStatus: status,
		Service:     req.Service,
		BookID:      req.BookID,
		Price:       req.Price,
		Date:        &placedAt,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventOrderCreated,
		Collection: entity.OrdersCollection,
		DocumentID: order.ID.Hex(),
		Email:      order.Email,
	})

	return order, nil
}

// DeleteOrder removes an order. A missing order reports zero deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (int64, error) {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return 0, ErrInvalidID
		}
		return 0, fmt.Errorf("failed to delete order: %w", err)
	}

	if deleted > 0 {
		publishEvent(ctx, s.publisher, entity.LibraryEvent{
			EventType:  entity.EventOrderDeleted,
			Collection: entity.OrdersCollection,
			DocumentID: id,
		})
	}

	return deleted, nil
}

// UpdateOrder overwrites name, email, address, order_status and service,
// creating the order under id when it is absent. Fields missing from the
// request are stored empty, exactly as sent.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req *entity.UpdateOrderRequest) (*entity.UpdateResult, error) {
	fields := entity.OrderFields{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		OrderStatus: req.OrderStatus,
		Service:     req.Service,
	}

	result, err := s.orderRepo.Upsert(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	eventType := entity.EventOrderUpdated
	if result.UpsertedCount > 0 {
		eventType = entity.EventOrderCreated
		metrics.OrdersCreated.Inc()
	}
	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  eventType,
		Collection: entity.OrdersCollection,
		DocumentID: id,
		Email:      req.Email,
	})

	return result, nil
}
