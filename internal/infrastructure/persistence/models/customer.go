package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressModel is the persistence model for an address book entry.
type AddressModel struct {
	BaseModel
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type         customer.AddressType `gorm:"type:varchar(20);not null;default:'home'"`
	FullName     string               `gorm:"type:varchar(100);not null"`
	Phone        string               `gorm:"type:varchar(20);not null"`
	AddressLine1 string               `gorm:"type:varchar(255);not null"`
	AddressLine2 string               `gorm:"type:varchar(255)"`
	City         string               `gorm:"type:varchar(100);not null"`
	State        string               `gorm:"type:varchar(100);not null"`
	Pincode      string               `gorm:"type:varchar(10);not null"`
	Country      string               `gorm:"type:varchar(60);not null"`
	IsDefault    bool                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address entity.
func (m *AddressModel) ToDomain() *customer.Address {
	return &customer.Address{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Type:       m.Type,
		Location: valueobject.ShippingAddress{
			FullName:     m.FullName,
			Phone:        m.Phone,
			AddressLine1: m.AddressLine1,
			AddressLine2: m.AddressLine2,
			City:         m.City,
			State:        m.State,
			Pincode:      m.Pincode,
			Country:      m.Country,
		},
		IsDefault: m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain Address entity.
func (m *AddressModel) FromDomain(a *customer.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Type = a.Type
	m.FullName = a.Location.FullName
	m.Phone = a.Location.Phone
	m.AddressLine1 = a.Location.AddressLine1
	m.AddressLine2 = a.Location.AddressLine2
	m.City = a.Location.City
	m.State = a.Location.State
	m.Pincode = a.Location.Pincode
	m.Country = a.Location.Country
	m.IsDefault = a.IsDefault
}
