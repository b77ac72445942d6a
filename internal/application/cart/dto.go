package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateQuantityRequest sets a line's quantity. Zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"max=99"`
}

// ItemResponse is one cart line with its current product data
type ItemResponse struct {
	ID        uuid.UUID                   `json:"id"`
	ProductID uuid.UUID                   `json:"product_id"`
	Quantity  int                         `json:"quantity"`
	LineTotal decimal.Decimal             `json:"line_total"`
	Product   *catalogapp.ProductResponse `json:"product,omitempty"`
}

// CartResponse is the full cart
type CartResponse struct {
	Items   []ItemResponse `json:"items"`
	Summary cart.Summary   `json:"summary"`
}

// ToCartResponse converts cart lines to a CartResponse
func ToCartResponse(items []*cart.Item) CartResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp := ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		}
		if item.Product != nil {
			p := catalogapp.ToProductResponse(item.Product)
			resp.Product = &p
		}
		out = append(out, resp)
	}
	return CartResponse{Items: out, Summary: cart.Summarize(items)}
}
