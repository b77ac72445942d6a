package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator verifies a bearer token
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Validator TokenValidator
	// Blacklist is consulted for signed-out tokens when set
	Blacklist auth.TokenBlacklist
	// Optional marks the route usable without a token; a bad token is
	// still ignored rather than rejected
	Optional bool
	Logger   *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked bearer token
func JWTAuth(validator TokenValidator, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthWithConfig(JWTMiddlewareConfig{Validator: validator, Blacklist: blacklist, Logger: log})
}

// OptionalJWTAuth attaches claims when a valid token is present and lets
// anonymous requests through
func OptionalJWTAuth(validator TokenValidator, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthWithConfig(JWTMiddlewareConfig{Validator: validator, Blacklist: blacklist, Optional: true, Logger: log})
}

// JWTAuthWithConfig creates JWT authentication middleware with custom config
func JWTAuthWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			if cfg.Optional {
				c.Next()
				return
			}
			abortWithError(c, dto.ErrCodeAuthRequired, "Authentication required")
			return
		}

		claims, err := cfg.Validator.Validate(token)
		if err == nil && cfg.Blacklist != nil && claims.ID != "" {
			revoked, lookupErr := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case lookupErr != nil:
				// fail open: a blacklist outage must not sign everyone out
				cfg.Logger.Error("Failed to check token blacklist", zap.Error(lookupErr))
			case revoked:
				err = auth.ErrTokenRevoked
			}
		}
		if err != nil {
			if cfg.Optional {
				c.Next()
				return
			}
			cfg.Logger.Warn("JWT authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			code, message := authErrorCode(err)
			abortWithError(c, code, message)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, dto.ErrCodeAuthRequired, "Authentication required")
			return
		}
		if !claims.IsAdmin() {
			abortWithError(c, dto.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func authErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return dto.ErrCodeTokenRevoked, "Token has been revoked"
	default:
		return dto.ErrCodeInvalidToken, "Invalid token"
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetUserID returns the authenticated user, or uuid.Nil for anonymous requests
func GetUserID(c *gin.Context) uuid.UUID {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}

func abortWithError(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, c.GetString(RequestIDKey)))
}
