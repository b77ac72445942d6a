package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// Item is one product line in a user's cart. (UserID, ProductID) is unique.
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
	// Product is loaded alongside the item when listing
	Product *catalog.Product
}

// NewItem creates a cart line
func NewItem(userID, productID uuid.UUID, quantity int) (*Item, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product is required")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	now := time.Now()
	return &Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// LineTotal returns quantity x current product price, or zero when the product is not loaded
func (i *Item) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary aggregates a cart for display
type Summary struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summarize counts units and sums line totals
func Summarize(items []*Item) Summary {
	s := Summary{Subtotal: decimal.Zero}
	for _, item := range items {
		s.ItemCount += item.Quantity
		s.Subtotal = s.Subtotal.Add(item.LineTotal())
	}
	return s
}
