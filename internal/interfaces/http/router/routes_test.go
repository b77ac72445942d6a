package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storefrontFixture struct {
	engine *gin.Engine
	router *Router
	tokens *auth.JWTService
}

// newStorefront mounts the full route table. Services are nil: the tests only
// reach middleware and handlers that reject before calling a service.
func newStorefront(t *testing.T, limiter *middleware.RateLimiter) *storefrontFixture {
	t.Helper()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})
	engine := gin.New()
	r := RegisterStorefront(engine, Handlers{
		System:   handler.NewSystemHandler("storefront-api", "test", nil),
		Auth:     handler.NewAuthHandler(nil),
		Catalog:  handler.NewCatalogHandler(nil, nil, nil),
		Cart:     handler.NewCartHandler(nil),
		Address:  handler.NewAddressHandler(nil),
		Order:    handler.NewOrderHandler(nil),
		Callback: handler.NewPaymentCallbackHandler(nil),
		Session:  handler.NewSessionHandler(nil, nil, nil),
		Admin:    handler.NewAdminHandler(nil, nil, nil),
	}, AuthConfig{
		Validator:   tokens,
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
		AuthLimiter: limiter,
	})
	return &storefrontFixture{engine: engine, router: r, tokens: tokens}
}

func (f *storefrontFixture) token(t *testing.T, role identity.Role) string {
	t.Helper()
	p := &identity.Profile{Email: "ravi@example.com", Role: role}
	p.ID = uuid.New()
	tok, err := f.tokens.Issue(p)
	require.NoError(t, err)
	return tok.Token
}

func (f *storefrontFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestRegisterStorefront_RouteTable(t *testing.T) {
	f := newStorefront(t, nil)

	registered := make(map[string]bool)
	for _, route := range f.engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /health/ready",
		"POST /api/v1/auth/signin",
		"GET /api/v1/products",
		"GET /api/v1/shipping/quote",
		"POST /api/v1/payments/phonepe/callback",
		"GET /api/v1/cart",
		"POST /api/v1/orders/:id/payment/confirm",
		"GET /api/v1/session",
		"POST /api/v1/session/navigate",
		"POST /api/v1/session/checkout",
		"PUT /api/v1/admin/orders/:id/status",
		"POST /api/v1/admin/orders/:id/refund",
		"PUT /api/v1/admin/users/:id/role",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRegisterStorefront_Groups(t *testing.T) {
	f := newStorefront(t, nil)

	prefixes := make(map[string]string)
	routes := make(map[string][]string)
	for _, g := range f.router.Groups() {
		prefixes[g.Name()] = g.Prefix()
		routes[g.Name()] = g.Routes()
	}

	assert.Equal(t, "/orders", prefixes["orders"])
	assert.Equal(t, "/session", prefixes["session"])
	assert.Equal(t, "", prefixes["catalog"])
	assert.Contains(t, routes["orders"], "POST /orders/:id/payment")
	assert.Contains(t, routes["admin"], "POST /admin/orders/:id/shipment")
	assert.Contains(t, routes["catalog"], "GET /products/:id")
}

func TestRegisterStorefront_Access(t *testing.T) {
	f := newStorefront(t, nil)
	customer := f.token(t, identity.RoleCustomer)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
		wantErr  string
	}{
		{"cart requires a token", "GET", "/api/v1/cart", "", http.StatusUnauthorized, dto.ErrCodeAuthRequired},
		{"orders reject a bad token", "GET", "/api/v1/orders", "not.a.jwt", http.StatusUnauthorized, dto.ErrCodeInvalidToken},
		{"checkout requires a token", "POST", "/api/v1/session/checkout", "", http.StatusUnauthorized, dto.ErrCodeAuthRequired},
		{"admin rejects anonymous", "GET", "/api/v1/admin/dashboard", "", http.StatusUnauthorized, dto.ErrCodeAuthRequired},
		{"admin rejects customers", "GET", "/api/v1/admin/dashboard", customer, http.StatusForbidden, dto.ErrCodeForbidden},
		{"unknown route", "GET", "/api/v1/wishlist", "", http.StatusNotFound, dto.ErrCodeRouteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, errorCodeOf(t, w))
		})
	}
}

func TestRegisterStorefront_Health(t *testing.T) {
	f := newStorefront(t, nil)

	w := f.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do("GET", "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterStorefront_AuthRateLimit(t *testing.T) {
	f := newStorefront(t, middleware.NewRateLimiter(1, time.Minute))

	// an empty body fails validation before any service call
	w := f.do("POST", "/api/v1/auth/signin", "", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("POST", "/api/v1/auth/signin", "", "{}")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, errorCodeOf(t, w))

	// signed-in routes are not throttled by the auth limiter
	w = f.do("GET", "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
