package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product browsing and admin product management
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns active products, newest first
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	return s.list(ctx, filter, false)
}

// ListAll includes inactive products; admin only
func (s *ProductService) ListAll(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	return s.list(ctx, filter, true)
}

func (s *ProductService) list(ctx context.Context, filter ProductListFilter, includeInactive bool) (shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.productRepo.List(ctx, catalog.ProductFilter{
		Filter:          f,
		CategoryID:      filter.CategoryID,
		Featured:        filter.Featured,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load products")
	}
	return shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize), nil
}

// Get returns an active product. Inactive products are reported as not found.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.NewDomainError(shared.CodeNotFound, "product not found")
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetAny returns a product whether active or not; admin only
func (s *ProductService) GetAny(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Create creates a new active product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	p, err := catalog.NewProduct(req.Name, req.SKU, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := p.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.OriginalPrice != nil {
		if err := p.SetPrices(req.Price, req.OriginalPrice); err != nil {
			return nil, err
		}
	}
	if err := p.SetStock(req.StockQuantity); err != nil {
		return nil, err
	}
	if req.WeightKG != nil {
		if err := p.SetWeight(*req.WeightKG); err != nil {
			return nil, err
		}
	}
	p.SetCategory(req.CategoryID)
	p.SetImages(req.Images)
	p.SetFeatured(req.IsFeatured)

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save product")
	}
	s.logger.Info("Product created", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	resp := ToProductResponse(p)
	return &resp, nil
}

// Update applies the fields present in req
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name, description := p.Name, p.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := p.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil || req.OriginalPrice != nil {
		price, original := p.Price, p.OriginalPrice
		if req.Price != nil {
			price = *req.Price
		}
		if req.OriginalPrice != nil {
			original = req.OriginalPrice
		}
		if err := p.SetPrices(price, original); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		p.SetCategory(req.CategoryID)
	}
	if req.StockQuantity != nil {
		if err := p.SetStock(*req.StockQuantity); err != nil {
			return nil, err
		}
	}
	if req.Images != nil {
		p.SetImages(req.Images)
	}
	if req.IsFeatured != nil {
		p.SetFeatured(*req.IsFeatured)
	}
	if req.WeightKG != nil {
		if err := p.SetWeight(*req.WeightKG); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save product")
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Activate makes a product visible to customers
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a product. Orders keep their snapshot of it.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		p.Activate()
	} else {
		p.Deactivate()
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save product")
	}
	s.logger.Info("Product visibility changed", zap.String("product_id", id.String()), zap.Bool("active", active))
	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *ProductService) find(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load product")
	}
	return p, nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Category not found")
		}
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load category")
	}
	return nil
}
