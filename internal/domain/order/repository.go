package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ListFilter narrows an admin order listing
type ListFilter struct {
	shared.Filter
	Status Status
	UserID *uuid.UUID
}

// Repository persists orders and their items
type Repository interface {
	// Create stores the order and all its items atomically
	Create(ctx context.Context, o *Order) error
	// Save updates the order header; items are immutable after creation
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Order, error)
	FindByPaymentTransactionID(ctx context.Context, merchantTxnID string) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Recent(ctx context.Context, limit int) ([]*Order, error)
}

// Stats is the aggregate order data shown on the admin dashboard
type Stats struct {
	TotalOrders   int64
	PendingOrders int64
	// Revenue sums totals of orders whose payment completed
	Revenue decimal.Decimal
}
