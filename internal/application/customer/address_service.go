package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
)

// AddressService manages a user's address book
type AddressService struct {
	addressRepo customer.AddressRepository
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo customer.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List returns the default address first, then newest first
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load addresses")
	}
	out := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, ToAddressResponse(a))
	}
	return out, nil
}

// Create adds an address. A user's first address always becomes the default.
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load addresses")
	}

	a, err := customer.NewAddress(userID, customer.AddressType(req.Type), req.location(), req.IsDefault || count == 0)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(a)
	return &resp, nil
}

// Update replaces an address. Setting is_default clears it on the others;
// clearing it on the current default is ignored.
func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	a, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(customer.AddressType(req.Type), req.location()); err != nil {
		return nil, err
	}
	if req.IsDefault {
		a.IsDefault = true
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(a)
	return &resp, nil
}

// Delete removes an address
func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.find(ctx, userID, id); err != nil {
		return err
	}
	if err := s.addressRepo.Delete(ctx, userID, id); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to delete address")
	}
	return nil
}

// SetDefault makes id the user's only default address
func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) ([]AddressResponse, error) {
	if _, err := s.find(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.addressRepo.SetDefault(ctx, userID, id); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update address")
	}
	return s.List(ctx, userID)
}

func (s *AddressService) find(ctx context.Context, userID, id uuid.UUID) (*customer.Address, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	a, err := s.addressRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load address")
	}
	return a, nil
}

func (s *AddressService) save(ctx context.Context, a *customer.Address) error {
	if err := s.addressRepo.Save(ctx, a); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to save address")
	}
	return nil
}
