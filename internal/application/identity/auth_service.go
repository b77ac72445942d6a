package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for a profile
type TokenIssuer interface {
	Issue(p *identity.Profile) (*auth.AccessToken, error)
}

// AuthService handles sign up, sign in, sign out and the caller's own profile
type AuthService struct {
	profiles  identity.ProfileRepository
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	profiles identity.ProfileRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profiles:  profiles,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// SignUp registers a customer and signs them in
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)
	exists, err := s.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to check email")
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists")
	}

	p, err := identity.NewProfile(email, req.Password, req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to create account")
	}
	s.logger.Info("Profile registered", zap.String("user_id", p.ID.String()))
	return s.issue(p)
}

// SignIn checks credentials and issues an access token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	p, err := s.profiles.FindByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load account")
	}
	if !p.VerifyPassword(req.Password) {
		s.logger.Warn("Failed sign in", zap.String("user_id", p.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}
	return s.issue(p)
}

// SignOut revokes the presented token until it would have expired
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return shared.ErrAuthRequired
	}
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.WrapDomainError(shared.CodePersistence, "Failed to sign out", err)
	}
	return nil
}

// Me returns the caller's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// UpdateProfile changes the caller's name and phone
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update profile")
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// ChangePassword requires the current password
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	p, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !p.VerifyPassword(req.CurrentPassword) {
		return shared.ErrInvalidCredentials
	}
	if err := p.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to change password")
	}
	return nil
}

func (s *AuthService) load(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// token outlived its profile
			return nil, shared.ErrAuthRequired
		}
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load profile")
	}
	return p, nil
}

func (s *AuthService) issue(p *identity.Profile) (*AuthResponse, error) {
	token, err := s.tokens.Issue(p)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeInternal, "Failed to issue access token", err)
	}
	return &AuthResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Profile:     ToProfileResponse(p),
	}, nil
}
