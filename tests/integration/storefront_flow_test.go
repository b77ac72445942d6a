package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePhonePe answers pay and status calls, remembering the amount of each
// transaction so status reports what was actually charged.
type fakePhonePe struct {
	mu      sync.Mutex
	amounts map[string]int64
}

func (f *fakePhonePe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/pg/v1/pay":
		var envelope struct {
			Request string `json:"request"`
		}
		var payload struct {
			MerchantTransactionID string `json:"merchantTransactionId"`
			Amount                int64  `json:"amount"`
		}
		raw := []byte{}
		if err := json.NewDecoder(r.Body).Decode(&envelope); err == nil {
			raw, _ = base64.StdEncoding.DecodeString(envelope.Request)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"code":"BAD_REQUEST"}`))
			return
		}
		f.mu.Lock()
		f.amounts[payload.MerchantTransactionID] = payload.Amount
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    "PAYMENT_INITIATED",
			"data": map[string]any{
				"merchantTransactionId": payload.MerchantTransactionID,
				"instrumentResponse": map[string]any{
					"type":         "PAY_PAGE",
					"redirectInfo": map[string]any{"url": "https://pay.example.test/" + payload.MerchantTransactionID, "method": "GET"},
				},
			},
		})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/pg/v1/status/"):
		txnID := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.mu.Lock()
		amount, ok := f.amounts[txnID]
		f.mu.Unlock()
		if !ok {
			_, _ = w.Write([]byte(`{"success":false,"code":"PAYMENT_ERROR","message":"unknown transaction"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    "PAYMENT_SUCCESS",
			"data": map[string]any{
				"merchantTransactionId": txnID,
				"transactionId":         "PG" + txnID,
				"amount":                amount,
				"state":                 "COMPLETED",
			},
		})

	default:
		http.NotFound(w, r)
	}
}

type storefrontApp struct {
	engine   *gin.Engine
	profiles *persistence.GormProfileRepository
}

func newStorefrontApp(t *testing.T, tdb *TestDB) *storefrontApp {
	t.Helper()
	log := zap.NewNop()

	gateway := httptest.NewServer(&fakePhonePe{amounts: make(map[string]int64)})
	t.Cleanup(gateway.Close)

	profiles := persistence.NewGormProfileRepository(tdb.DB)
	products := persistence.NewGormProductRepository(tdb.DB)
	categories := persistence.NewGormCategoryRepository(tdb.DB)
	carts := persistence.NewGormCartRepository(tdb.DB)
	addresses := persistence.NewGormAddressRepository(tdb.DB)
	orders := persistence.NewGormOrderRepository(tdb.DB)

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-integration",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(profiles, tokens, blacklist, log)
	userService := identityapp.NewUserService(profiles, log)
	productService := catalogapp.NewProductService(products, categories, log)
	categoryService := catalogapp.NewCategoryService(categories)
	cartService := cartapp.NewCartService(carts, products)
	addressService := customerapp.NewAddressService(addresses)
	adminService := adminapp.NewService(products, orders, log)

	orderService := orderapp.NewOrderService(orders, carts, addresses, order.PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(999),
		ShippingFee:           decimal.NewFromInt(49),
		TaxRate:               decimal.RequireFromString("0.18"),
	}, log)
	phonePe, err := payment.NewPhonePeClient(payment.PhonePeConfig{
		MerchantID:  "MERCHANTUAT",
		SaltKey:     "salt-key",
		SaltIndex:   "1",
		BaseURL:     gateway.URL,
		RedirectURL: "https://shop.example.test/payment/return",
		CallbackURL: "https://shop.example.test/api/v1/payments/phonepe/callback",
	}, log)
	require.NoError(t, err)
	orderService.SetPaymentGateway(phonePe)
	callbacks := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = callbacks.Close() })
	orderService.SetIdempotencyStore(callbacks, time.Hour)

	navigator := storefront.NewNavigator(storefront.Sources{
		Products:   productService,
		Categories: categoryService,
		Addresses:  addressService,
		Profiles:   authService,
		BackOffice: adminService,
		Users:      userService,
	})

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.RegisterStorefront(engine, router.Handlers{
		System:   handler.NewSystemHandler("storefront-api", "integration", map[string]handler.Pinger{"database": handler.PingFunc((&persistence.Database{DB: tdb.DB}).Ping)}),
		Auth:     handler.NewAuthHandler(authService),
		Catalog:  handler.NewCatalogHandler(productService, categoryService, catalogapp.NewImageService(nil, products, log)),
		Cart:     handler.NewCartHandler(cartService),
		Address:  handler.NewAddressHandler(addressService),
		Order:    handler.NewOrderHandler(orderService),
		Callback: handler.NewPaymentCallbackHandler(orderService),
		Session:  handler.NewSessionHandler(cartService, orderService, navigator),
		Admin:    handler.NewAdminHandler(adminService, orderService, userService),
	}, router.AuthConfig{Validator: tokens, Blacklist: blacklist, Logger: log})

	return &storefrontApp{engine: engine, profiles: profiles}
}

func signUp(t *testing.T, client *testutil.APIClient, email string) identityapp.AuthResponse {
	t.Helper()
	return testutil.DecodeData[identityapp.AuthResponse](t, client.Do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":     email,
		"password":  "correct-horse-battery",
		"full_name": "Asha Rao",
	}), http.StatusCreated)
}

// promote makes the profile an admin directly in the database and signs in
// again so the token carries the new role
func (a *storefrontApp) promote(t *testing.T, client *testutil.APIClient, ctx context.Context, resp identityapp.AuthResponse) string {
	t.Helper()
	p, err := a.profiles.FindByID(ctx, resp.Profile.ID)
	require.NoError(t, err)
	require.NoError(t, p.SetRole(identity.RoleAdmin))
	require.NoError(t, a.profiles.Save(ctx, p))

	again := testutil.DecodeData[identityapp.AuthResponse](t, client.Do(http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":    resp.Profile.Email,
		"password": "correct-horse-battery",
	}), http.StatusOK)
	return again.AccessToken
}

func TestStorefrontFlow_CheckoutAndPay(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, timeoutPerTest)
	app := newStorefrontApp(t, tdb)
	client := testutil.NewAPIClient(t, app.engine)

	shopper := client.As(signUp(t, client, testutil.UniqueEmail("shopper")).AccessToken)
	admin := client.As(app.promote(t, client, ctx, signUp(t, client, testutil.UniqueEmail("admin"))))

	// Admin stocks the catalog
	product := testutil.DecodeData[catalogapp.ProductResponse](t, admin.Do(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name":           "Block Print Kurta",
		"price":          "799.00",
		"stock_quantity": 10,
	}), http.StatusCreated)

	// Anonymous visitors see it in the public catalog
	listing := testutil.DecodeEnvelope(t, client.Do(http.MethodGet, "/api/v1/products", nil))
	assert.True(t, listing.Success)
	assert.Contains(t, string(listing.Data), product.ID.String())

	// Shopper fills the cart and address book
	testutil.DecodeData[cartapp.CartResponse](t, shopper.Do(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": product.ID,
		"quantity":   2,
	}), http.StatusOK)
	address := testutil.DecodeData[customerapp.AddressResponse](t, shopper.Do(http.MethodPost, "/api/v1/addresses", map[string]any{
		"full_name":      "Asha Rao",
		"phone":          "9876543210",
		"address_line_1": "12 MG Road",
		"city":           "Bengaluru",
		"state":          "Karnataka",
		"pincode":        "560001",
		"is_default":     true,
	}), http.StatusCreated)

	created := testutil.DecodeData[orderapp.OrderResponse](t, shopper.Do(http.MethodPost, "/api/v1/orders", map[string]any{
		"address_id":     address.ID,
		"payment_method": "phonepe",
	}), http.StatusCreated)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "pending", created.PaymentStatus)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2, created.Items[0].Quantity)

	path := "/api/v1/orders/" + created.ID.String()

	initiated := testutil.DecodeData[orderapp.InitiatePaymentResponse](t, shopper.Do(http.MethodPost, path+"/payment", nil), http.StatusOK)
	assert.NotEmpty(t, initiated.MerchantTransactionID)
	assert.Contains(t, initiated.RedirectURL, initiated.MerchantTransactionID)

	confirmed := testutil.DecodeData[orderapp.OrderResponse](t, shopper.Do(http.MethodPost, path+"/payment/confirm", map[string]string{
		"transaction_id": initiated.MerchantTransactionID,
	}), http.StatusOK)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, "completed", confirmed.PaymentStatus)

	// Confirming again is a no-op
	again := testutil.DecodeData[orderapp.OrderResponse](t, shopper.Do(http.MethodPost, path+"/payment/confirm", map[string]string{
		"transaction_id": initiated.MerchantTransactionID,
	}), http.StatusOK)
	assert.Equal(t, "confirmed", again.Status)

	t.Run("customers cannot reach the back office", func(t *testing.T) {
		code := testutil.ErrorCode(t, shopper.Do(http.MethodGet, "/api/v1/admin/orders/"+created.ID.String(), nil), http.StatusForbidden)
		assert.Equal(t, "FORBIDDEN", code)
	})

	t.Run("another shopper cannot see the order", func(t *testing.T) {
		other := client.As(signUp(t, client, testutil.UniqueEmail("other")).AccessToken)
		code := testutil.ErrorCode(t, other.Do(http.MethodGet, path, nil), http.StatusNotFound)
		assert.Equal(t, "NOT_FOUND", code)
	})

	t.Run("admin moves the order forward", func(t *testing.T) {
		processing := testutil.DecodeData[orderapp.OrderResponse](t, admin.Do(http.MethodPut, "/api/v1/admin/orders/"+created.ID.String()+"/status", map[string]string{
			"status": "processing",
		}), http.StatusOK)
		assert.Equal(t, "processing", processing.Status)

		code := testutil.ErrorCode(t, admin.Do(http.MethodPut, "/api/v1/admin/orders/"+created.ID.String()+"/status", map[string]string{
			"status": "pending",
		}), http.StatusUnprocessableEntity)
		assert.Equal(t, "INVALID_TRANSITION", code)
	})

	t.Run("signed-out tokens are rejected", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, shopper.Do(http.MethodPost, "/api/v1/auth/signout", nil).Code)
		code := testutil.ErrorCode(t, shopper.Do(http.MethodGet, "/api/v1/cart", nil), http.StatusUnauthorized)
		assert.Equal(t, "TOKEN_REVOKED", code)
	})
}

func TestStorefrontFlow_SessionNavigation(t *testing.T) {
	tdb := NewTestDB(t)
	app := newStorefrontApp(t, tdb)
	client := testutil.NewAPIClient(t, app.engine)

	// anonymous shoppers can browse but not open the cart view
	home := client.Do(http.MethodPost, "/api/v1/session/navigate", map[string]any{"view": "home"})
	assert.Equal(t, http.StatusOK, home.Code, home.Body.String())

	code := testutil.ErrorCode(t, client.Do(http.MethodPost, "/api/v1/session/navigate", map[string]any{"view": "cart"}), http.StatusUnauthorized)
	assert.Equal(t, "AUTH_REQUIRED", code)

	shopper := client.As(signUp(t, client, testutil.UniqueEmail("browser")).AccessToken)
	cartView := shopper.Do(http.MethodPost, "/api/v1/session/navigate", map[string]any{"view": "cart"})
	assert.Equal(t, http.StatusOK, cartView.Code, cartView.Body.String())

	code = testutil.ErrorCode(t, shopper.Do(http.MethodPost, "/api/v1/session/navigate", map[string]any{"view": "admin/dashboard"}), http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", code)

}
