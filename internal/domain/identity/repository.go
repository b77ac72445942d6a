package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProfileFilter narrows an admin user listing
type ProfileFilter struct {
	shared.Filter
	Role Role // empty means all roles
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save creates or updates a profile
	Save(ctx context.Context, profile *Profile) error
	List(ctx context.Context, filter ProfileFilter) ([]*Profile, int64, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
}
