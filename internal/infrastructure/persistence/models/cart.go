package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartItemModel is the persistence model for a cart line.
// (user_id, product_id) is unique so re-adding a product updates the row.
type CartItemModel struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int           `gorm:"not null"`
	CreatedAt time.Time     `gorm:"not null"`
	UpdatedAt time.Time     `gorm:"not null"`
	Product   *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain cart Item.
func (m *CartItemModel) ToDomain() *cart.Item {
	item := &cart.Item{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		item.Product = m.Product.ToDomain()
	}
	return item
}

// FromDomain populates the persistence model from a domain cart Item.
// The product association is never written through the cart.
func (m *CartItemModel) FromDomain(i *cart.Item) {
	m.ID = i.ID
	m.UserID = i.UserID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}
