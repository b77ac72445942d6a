package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists cart lines. Every method is scoped to one user.
type Repository interface {
	// ListByUser returns the user's items with their products loaded
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Item, error)
	FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*Item, error)
	// Upsert inserts the item or overwrites the quantity of the existing (user, product) line
	Upsert(ctx context.Context, item *Item) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
