package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthService is what AuthHandler needs from the identity layer
type AuthService interface {
	SignUp(ctx context.Context, req identityapp.SignUpRequest) (*identityapp.AuthResponse, error)
	SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.AuthResponse, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error
}

// AuthHandler serves sign up, sign in and the caller's profile
type AuthHandler struct {
	BaseHandler
	auth AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	resp, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile handles PUT /auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword handles PUT /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
