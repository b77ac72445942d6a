package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=5000"`
	SKU           string           `json:"sku" binding:"max=64"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	StockQuantity int              `json:"stock_quantity" binding:"min=0"`
	Images        []string         `json:"images" binding:"max=10,dive,url"`
	IsFeatured    bool             `json:"is_featured"`
	WeightKG      *decimal.Decimal `json:"weight"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	StockQuantity *int             `json:"stock_quantity" binding:"omitempty,min=0"`
	Images        []string         `json:"images" binding:"omitempty,max=10,dive,url"`
	IsFeatured    *bool            `json:"is_featured"`
	WeightKG      *decimal.Decimal `json:"weight"`
}

// ProductListFilter represents filter options for product listings
type ProductListFilter struct {
	Search     string     `form:"search" binding:"max=100"`
	CategoryID *uuid.UUID `form:"category_id"`
	Featured   *bool      `form:"featured"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent int              `json:"discount_percent"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	StockQuantity   int              `json:"stock_quantity"`
	SKU             string           `json:"sku"`
	Images          []string         `json:"images"`
	IsActive        bool             `json:"is_active"`
	IsFeatured      bool             `json:"is_featured"`
	WeightKG        decimal.Decimal  `json:"weight"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent(),
		CategoryID:      p.CategoryID,
		StockQuantity:   p.StockQuantity,
		SKU:             p.SKU,
		Images:          images,
		IsActive:        p.IsActive,
		IsFeatured:      p.IsFeatured,
		WeightKG:        p.WeightKG,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ImageUploadRequest asks for a presigned product image upload
type ImageUploadRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	FileName    string     `json:"file_name" binding:"required,max=200"`
	ContentType string     `json:"content_type" binding:"required"`
}
