package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService is the back office view of registered profiles
type UserService struct {
	profiles identity.ProfileRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(profiles identity.ProfileRepository, logger *zap.Logger) *UserService {
	return &UserService{profiles: profiles, logger: logger}
}

// List returns a page of profiles. Role "all" or empty lists every role.
func (s *UserService) List(ctx context.Context, f UserListFilter) (*UserListResponse, error) {
	filter := identity.ProfileFilter{
		Filter: shared.Filter{
			Page:     max(f.Page, 1),
			PageSize: f.PageSize,
			Search:   f.Search,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if f.Role != "" && f.Role != "all" {
		role := identity.Role(f.Role)
		if !role.IsValid() {
			return nil, shared.NewValidationError("Unknown role: %q", f.Role)
		}
		filter.Role = role
	}

	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load users")
	}
	counts, err := s.profiles.CountByRole(ctx)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to count users")
	}

	resp := &UserListResponse{
		Users:      make([]ProfileResponse, 0, len(profiles)),
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		RoleCounts: map[string]int64{"all": 0},
	}
	for _, p := range profiles {
		resp.Users = append(resp.Users, ToProfileResponse(p))
	}
	for _, role := range []identity.Role{identity.RoleCustomer, identity.RoleAdmin} {
		resp.RoleCounts[role.String()] = counts[role]
		resp.RoleCounts["all"] += counts[role]
	}
	return resp, nil
}

// SetRole promotes or demotes a profile. Admins cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, actorID, userID uuid.UUID, req SetRoleRequest) (*ProfileResponse, error) {
	role := identity.Role(req.Role)
	if actorID == userID && role != identity.RoleAdmin {
		return nil, shared.NewValidationError("You cannot remove your own admin role")
	}
	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
		}
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load user")
	}
	if err := p.SetRole(role); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update user")
	}
	s.logger.Info("Role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role.String()),
		zap.String("actor_id", actorID.String()),
	)
	resp := ToProfileResponse(p)
	return &resp, nil
}
