package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category browsing and admin category management
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns categories ordered by name. Customers only see active ones.
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load categories")
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryResponse(c))
	}
	return out, nil
}

// Get returns an active category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, shared.NewDomainError(shared.CodeNotFound, "category not found")
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	c, err := catalog.NewCategory(req.Name, req.Description, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		c.SetActive(*req.IsActive)
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save category")
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Update replaces a category's display fields
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.ImageURL); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		c.SetActive(*req.IsActive)
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save category")
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

func (s *CategoryService) find(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load category")
	}
	return c, nil
}
