package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products for browsing
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
}

// NewCategory creates an active category
func NewCategory(name, description, imageURL string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		IsActive:    true,
	}, nil
}

// Update updates the category's display fields
func (c *Category) Update(name, description, imageURL string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Description = description
	c.ImageURL = imageURL
	c.Touch()
	return nil
}

// SetActive shows or hides the category
func (c *Category) SetActive(active bool) {
	c.IsActive = active
	c.Touch()
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewValidationError("Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("Category name cannot exceed 100 characters")
	}
	return nil
}
