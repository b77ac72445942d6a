package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest creates or replaces an address book entry
type AddressRequest struct {
	Type         string `json:"type" binding:"omitempty,oneof=home work other"`
	FullName     string `json:"full_name" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"required,phone_in"`
	AddressLine1 string `json:"address_line_1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line_2" binding:"max=200"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	Pincode      string `json:"pincode" binding:"required,pincode"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) location() valueobject.ShippingAddress {
	return valueobject.ShippingAddress{
		FullName:     r.FullName,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		Pincode:      r.Pincode,
		Country:      valueobject.DefaultCountry,
	}
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	IsDefault bool      `json:"is_default"`
	valueobject.ShippingAddress
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAddressResponse converts a domain Address to AddressResponse
func ToAddressResponse(a *customer.Address) AddressResponse {
	return AddressResponse{
		ID:              a.ID,
		Type:            string(a.Type),
		IsDefault:       a.IsDefault,
		ShippingAddress: a.Location,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
