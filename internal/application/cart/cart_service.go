package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService manages a user's cart. The last write wins; there is no version check.
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List returns the cart with product data
func (s *CartService) List(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load cart")
	}
	resp := ToCartResponse(items)
	return &resp, nil
}

// Summary returns the unit count and subtotal at current prices
func (s *CartService) Summary(ctx context.Context, userID uuid.UUID) (*cart.Summary, error) {
	resp, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

// Add puts a product in the cart, adding to the quantity of an existing line
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	if req.Quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("Product not found")
		}
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load product")
	}
	if !product.IsPurchasable() {
		return nil, shared.NewValidationError("%s is not available", product.Name)
	}

	existing, err := s.cartRepo.FindByProduct(ctx, userID, req.ProductID)
	switch {
	case err == nil:
		existing.Quantity += req.Quantity
		if err := s.upsert(ctx, existing); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		item, err := cart.NewItem(userID, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
		if err := s.upsert(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load cart")
	}
	return s.List(ctx, userID)
}

// UpdateQuantity sets a line's quantity; quantity <= 0 removes the line
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	item, err := s.cartRepo.FindByProduct(ctx, userID, productID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load cart")
	}
	item.Quantity = quantity
	if err := s.upsert(ctx, item); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// Remove deletes a product from the cart
func (s *CartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update cart")
	}
	return s.List(ctx, userID)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrAuthRequired
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to clear cart")
	}
	return nil
}

func (s *CartService) upsert(ctx context.Context, item *cart.Item) error {
	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update cart")
	}
	return nil
}
