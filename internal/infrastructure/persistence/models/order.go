package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	UserID               uuid.UUID                    `gorm:"type:uuid;not null;index"`
	OrderNumber          string                       `gorm:"type:varchar(32);not null;uniqueIndex"`
	Subtotal             decimal.Decimal              `gorm:"type:decimal(12,2);not null"`
	ShippingAmount       decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount            decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount       decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount          decimal.Decimal              `gorm:"type:decimal(12,2);not null"`
	ShippingAddress      valueobject.ShippingAddress  `gorm:"type:jsonb;not null"`
	BillingAddress       *valueobject.ShippingAddress `gorm:"type:jsonb"`
	Status               order.Status                 `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus        order.PaymentStatus          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod        order.PaymentMethod          `gorm:"type:varchar(20);not null"`
	PaymentTransactionID string                       `gorm:"type:varchar(64);index"`
	PaymentID            string                       `gorm:"type:varchar(64)"`
	DeliveryPartner      string                       `gorm:"type:varchar(50)"`
	TrackingID           string                       `gorm:"type:varchar(64)"`
	AWBNumber            string                       `gorm:"column:awb_number;type:varchar(64)"`
	EstimatedDelivery    string                       `gorm:"type:varchar(32)"`
	DeliveredAt          *time.Time
	Notes                string                      `gorm:"type:text"`
	Items                []OrderItemModel            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentAttempts      []OrderPaymentAttemptModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity:           m.BaseModel.ToDomain(),
		UserID:               m.UserID,
		OrderNumber:          m.OrderNumber,
		Subtotal:             m.Subtotal,
		ShippingAmount:       m.ShippingAmount,
		TaxAmount:            m.TaxAmount,
		DiscountAmount:       m.DiscountAmount,
		TotalAmount:          m.TotalAmount,
		ShippingAddress:      m.ShippingAddress,
		BillingAddress:       m.BillingAddress,
		Status:               m.Status,
		PaymentStatus:        m.PaymentStatus,
		PaymentMethod:        m.PaymentMethod,
		PaymentTransactionID: m.PaymentTransactionID,
		PaymentID:            m.PaymentID,
		DeliveryPartner:      m.DeliveryPartner,
		TrackingID:           m.TrackingID,
		AWBNumber:            m.AWBNumber,
		EstimatedDelivery:    m.EstimatedDelivery,
		DeliveredAt:          m.DeliveredAt,
		Notes:                m.Notes,
		Items:                make([]order.Item, 0, len(m.Items)),
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	for _, a := range m.PaymentAttempts {
		o.PaymentAttempts = append(o.PaymentAttempts, a.MerchantTransactionID)
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.OrderNumber = o.OrderNumber
	m.Subtotal = o.Subtotal
	m.ShippingAmount = o.ShippingAmount
	m.TaxAmount = o.TaxAmount
	m.DiscountAmount = o.DiscountAmount
	m.TotalAmount = o.TotalAmount
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.PaymentTransactionID = o.PaymentTransactionID
	m.PaymentID = o.PaymentID
	m.DeliveryPartner = o.DeliveryPartner
	m.TrackingID = o.TrackingID
	m.AWBNumber = o.AWBNumber
	m.EstimatedDelivery = o.EstimatedDelivery
	m.DeliveredAt = o.DeliveredAt
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
	m.PaymentAttempts = make([]OrderPaymentAttemptModel, len(o.PaymentAttempts))
	for i, txnID := range o.PaymentAttempts {
		m.PaymentAttempts[i] = OrderPaymentAttemptModel{MerchantTransactionID: txnID, OrderID: o.ID}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
// The product snapshot is stored as JSON and never rewritten.
type OrderItemModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID             `gorm:"type:uuid;not null"`
	Quantity   int                   `gorm:"not null"`
	UnitPrice  decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Product    order.ProductSnapshot `gorm:"column:product_snapshot;type:jsonb;not null"`
	Position   int                   `gorm:"not null;default:0"`
	CreatedAt  time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:         m.ID,
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalPrice: m.TotalPrice,
		Product:    m.Product,
		Position:   m.Position,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain order Item.
func (m *OrderItemModel) FromDomain(i *order.Item) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.TotalPrice = i.TotalPrice
	m.Product = i.Product
	m.Position = i.Position
	m.CreatedAt = i.CreatedAt
}

// OrderPaymentAttemptModel records one merchant transaction issued for an order.
type OrderPaymentAttemptModel struct {
	MerchantTransactionID string    `gorm:"type:varchar(64);primaryKey"`
	OrderID               uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt             time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderPaymentAttemptModel) TableName() string {
	return "order_payment_attempts"
}
