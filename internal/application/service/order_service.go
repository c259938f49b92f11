package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/repository"
	"github.com/thaisrestaurant/orderdesk-api/pkg/apperror"
)

// OrderService handles order creation and retrieval
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// CreateOrderInput represents the order submission input. OrderID is the
// client-generated token; one is generated server-side when absent.
type CreateOrderInput struct {
	OrderID  string
	Product  string
	Quantity int
	Amount   decimal.Decimal
}

// CreateOrder inserts one new order with created_at set to the submission
// time and source tagged "app"
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if input.Product == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "product", Message: "Product is required"},
		})
	}
	if input.Quantity < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must not be negative"},
		})
	}
	if input.Amount.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Amount must not be negative"},
		})
	}

	orderID := input.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	} else {
		existing, err := s.orderRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Order ID already exists")
		}
	}

	order := &entity.Order{
		OrderID:   orderID,
		Product:   input.Product,
		Quantity:  input.Quantity,
		Amount:    input.Amount,
		Source:    entity.SourceApp,
		CreatedAt: time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns a full snapshot of the orders table
func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// GetOrder returns a single order by storage key
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// DeleteOrder soft-deletes an order
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	return s.orderRepo.Delete(ctx, id)
}
