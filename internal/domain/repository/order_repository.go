package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
)

// OrderRepository defines the interface for order data operations. Reads are
// full scans of the orders table; date filtering happens downstream in the
// aggregation pipeline, not in SQL.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
