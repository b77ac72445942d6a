package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is an item offered in the storefront
type Product struct {
	shared.BaseEntity
	Name          string
	Description   string
	Price         decimal.Decimal  // current selling price
	OriginalPrice *decimal.Decimal // list price shown struck through, if any
	CategoryID    *uuid.UUID
	StockQuantity int
	SKU           string
	Images        []string
	IsActive      bool
	IsFeatured    bool
	WeightKG      decimal.Decimal
}

// NewProduct creates an active product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SKU:        strings.ToUpper(strings.TrimSpace(sku)),
		Price:      price,
		Images:     []string{},
		IsActive:   true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.Touch()
	return nil
}

// SetPrices sets the selling price and the optional original price
func (p *Product) SetPrices(price decimal.Decimal, original *decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if original != nil {
		if original.IsNegative() {
			return shared.NewValidationError("Original price cannot be negative")
		}
		if original.LessThan(price) {
			return shared.NewValidationError("Original price cannot be below the selling price")
		}
	}
	p.Price = price
	p.OriginalPrice = original
	p.Touch()
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// SetStock sets the available stock
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewValidationError("Stock quantity cannot be negative")
	}
	p.StockQuantity = quantity
	p.Touch()
	return nil
}

// SetImages replaces the product image URLs
func (p *Product) SetImages(images []string) {
	cleaned := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			cleaned = append(cleaned, img)
		}
	}
	p.Images = cleaned
	p.Touch()
}

// SetWeight sets the shipping weight in kilograms
func (p *Product) SetWeight(kg decimal.Decimal) error {
	if kg.IsNegative() {
		return shared.NewValidationError("Weight cannot be negative")
	}
	p.WeightKG = kg
	p.Touch()
	return nil
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.Touch()
}

// Activate makes the product visible to customers
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate hides the product. Existing orders keep their snapshot.
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// IsPurchasable reports whether the product can be added to a cart
func (p *Product) IsPurchasable() bool {
	return p.IsActive
}

// PrimaryImage returns the first image URL or ""
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountPercent returns how far the price is below the original price, in whole percent
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice == nil || p.OriginalPrice.IsZero() || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}
	off := p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	return nil
}
