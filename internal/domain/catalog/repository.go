package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	Featured   *bool
	// IncludeInactive is only set on admin listings
	IncludeInactive bool
}

// ProductCounts is the catalog summary shown on the admin dashboard
type ProductCounts struct {
	Total  int64
	Active int64
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, active or not
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// List returns a page of products matching the filter, newest first
	List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Counts returns total and active product counts
	Counts(ctx context.Context) (ProductCounts, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// List returns categories ordered by name
	List(ctx context.Context, includeInactive bool) ([]*Category, error)
	Save(ctx context.Context, category *Category) error
}
