package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	IsActive    bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.ImageURL = c.ImageURL
	m.IsActive = c.IsActive
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name          string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	StockQuantity int              `gorm:"not null;default:0"`
	SKU           string           `gorm:"column:sku;type:varchar(64);index"`
	Images        []string         `gorm:"type:jsonb;serializer:json"`
	IsActive      bool             `gorm:"not null;default:true;index"`
	IsFeatured    bool             `gorm:"not null;default:false;index"`
	WeightKG      decimal.Decimal  `gorm:"column:weight_kg;type:decimal(8,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		CategoryID:    m.CategoryID,
		StockQuantity: m.StockQuantity,
		SKU:           m.SKU,
		Images:        images,
		IsActive:      m.IsActive,
		IsFeatured:    m.IsFeatured,
		WeightKG:      m.WeightKG,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.OriginalPrice = p.OriginalPrice
	m.CategoryID = p.CategoryID
	m.StockQuantity = p.StockQuantity
	m.SKU = p.SKU
	m.Images = p.Images
	if m.Images == nil {
		m.Images = []string{}
	}
	m.IsActive = p.IsActive
	m.IsFeatured = p.IsFeatured
	m.WeightKG = p.WeightKG
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
