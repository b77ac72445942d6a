package customer

import (
	"context"

	"github.com/google/uuid"
)

// AddressRepository persists address book entries, always scoped to one user
type AddressRepository interface {
	// ListByUser returns the default address first, then newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Address, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Save creates or updates the address. When it is the default, the flag is
	// cleared on the user's other addresses in the same transaction.
	Save(ctx context.Context, address *Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// SetDefault makes id the user's only default address
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}
