package customer

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressType labels a saved address
type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

// IsValid checks if the address type is known
func (t AddressType) IsValid() bool {
	return t == AddressTypeHome || t == AddressTypeWork || t == AddressTypeOther
}

// Address is an entry in a user's address book
type Address struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Type      AddressType
	Location  valueobject.ShippingAddress
	IsDefault bool
}

// NewAddress creates a validated address book entry
func NewAddress(userID uuid.UUID, addrType AddressType, location valueobject.ShippingAddress, isDefault bool) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	a := &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		IsDefault:  isDefault,
	}
	if err := a.Update(addrType, location); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the type and location
func (a *Address) Update(addrType AddressType, location valueobject.ShippingAddress) error {
	if addrType == "" {
		addrType = AddressTypeHome
	}
	if !addrType.IsValid() {
		return shared.NewValidationError("Unknown address type: %q", addrType)
	}
	if location.Country == "" {
		location.Country = valueobject.DefaultCountry
	}
	if err := location.Validate(); err != nil {
		return shared.WrapDomainError(shared.CodeValidation, err.Error(), err)
	}
	a.Type = addrType
	a.Location = location
	a.Touch()
	return nil
}

// IsOwnedBy reports whether the address belongs to userID
func (a *Address) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
