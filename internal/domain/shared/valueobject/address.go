package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountry is used when an address does not name one
const DefaultCountry = "India"

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
)

// Address validation errors
var (
	ErrAddressMissingName    = errors.New("address: full name is required")
	ErrAddressMissingPhone   = errors.New("address: phone is required")
	ErrAddressInvalidPhone   = errors.New("address: phone must be 10-13 digits")
	ErrAddressMissingLine1   = errors.New("address: address line 1 is required")
	ErrAddressMissingCity    = errors.New("address: city is required")
	ErrAddressMissingState   = errors.New("address: state is required")
	ErrAddressInvalidPincode = errors.New("address: pincode must be 6 digits")
)

// ShippingAddress is a delivery destination. Orders keep a copy of it so
// later edits to the address book do not change past orders.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// NewShippingAddress trims and validates the given fields
func NewShippingAddress(fullName, phone, line1, line2, city, state, pincode string) (ShippingAddress, error) {
	a := ShippingAddress{
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
		AddressLine1: strings.TrimSpace(line1),
		AddressLine2: strings.TrimSpace(line2),
		City:         strings.TrimSpace(city),
		State:        strings.TrimSpace(state),
		Pincode:      strings.TrimSpace(pincode),
		Country:      DefaultCountry,
	}
	if err := a.Validate(); err != nil {
		return ShippingAddress{}, err
	}
	return a, nil
}

// Validate checks that every field a carrier needs is present
func (a ShippingAddress) Validate() error {
	switch {
	case a.FullName == "":
		return ErrAddressMissingName
	case a.Phone == "":
		return ErrAddressMissingPhone
	case !phonePattern.MatchString(a.Phone):
		return ErrAddressInvalidPhone
	case a.AddressLine1 == "":
		return ErrAddressMissingLine1
	case a.City == "":
		return ErrAddressMissingCity
	case a.State == "":
		return ErrAddressMissingState
	case !IsValidPincode(a.Pincode):
		return ErrAddressInvalidPincode
	}
	return nil
}

// IsEmpty reports whether no field is set
func (a ShippingAddress) IsEmpty() bool {
	return a == ShippingAddress{}
}

// StreetAddress joins both address lines
func (a ShippingAddress) StreetAddress() string {
	if a.AddressLine2 == "" {
		return a.AddressLine1
	}
	return a.AddressLine1 + ", " + a.AddressLine2
}

// String returns the single-line form of the address
func (a ShippingAddress) String() string {
	parts := []string{a.StreetAddress(), a.City, a.State + " " + a.Pincode}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer so the address can be stored as a JSON column
func (a ShippingAddress) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSON columns
func (a *ShippingAddress) Scan(value any) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into ShippingAddress", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = ShippingAddress{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// IsValidPincode reports whether s is a six digit Indian postal code
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// IsValidPhone reports whether s looks like a dialable phone number
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
