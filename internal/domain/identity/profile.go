package identity

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a profile
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
var bcryptCost = bcrypt.DefaultCost

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
)

// Profile is a registered storefront user
type Profile struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
}

// NewProfile registers a customer profile with a hashed password
func NewProfile(email, password, fullName, phone string) (*Profile, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	p := &Profile{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Role:       RoleCustomer,
	}
	if err := p.UpdateDetails(fullName, phone); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation, "Failed to hash password", err)
	}
	p.PasswordHash = hash
	return p, nil
}

// UpdateDetails sets the display name and contact phone
func (p *Profile) UpdateDetails(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if fullName == "" {
		return shared.NewValidationError("Full name cannot be empty")
	}
	if len(fullName) > 100 {
		return shared.NewValidationError("Full name cannot exceed 100 characters")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return shared.NewValidationError("Invalid phone number")
	}
	p.FullName = fullName
	p.Phone = phone
	p.Touch()
	return nil
}

// SetPassword replaces the password hash
func (p *Profile) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.WrapDomainError(shared.CodeValidation, "Failed to hash password", err)
	}
	p.PasswordHash = hash
	p.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (p *Profile) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}

// SetRole changes the access level
func (p *Profile) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("Unknown role: %q", role)
	}
	p.Role = role
	p.Touch()
	return nil
}

// IsAdmin reports whether the profile may use the back office
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lower-cases and trims an email for lookups
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}
