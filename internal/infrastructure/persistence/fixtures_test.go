package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) valueobject.ShippingAddress {
	t.Helper()
	addr, err := valueobject.NewShippingAddress("Asha Rao", "9876543210", "12 MG Road", "Flat 4", "Bengaluru", "Karnataka", "560001")
	require.NoError(t, err)
	return addr
}

func testProduct(t *testing.T, name, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "sku-"+name, decimal.RequireFromString(price))
	require.NoError(t, err)
	return p
}

func testProfile(email string, role identity.Role) *identity.Profile {
	return &identity.Profile{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: "$2a$10$placeholder",
		FullName:     "Test " + email,
		Role:         role,
	}
}

func testOrder(t *testing.T, userID uuid.UUID, createdAt time.Time) *order.Order {
	t.Helper()
	lines := []order.Line{
		{
			ProductID: uuid.New(),
			Quantity:  2,
			Product:   order.ProductSnapshot{Name: "Tea", Images: []string{"tea.jpg"}, Price: decimal.RequireFromString("10.25")},
		},
		{
			ProductID: uuid.New(),
			Quantity:  1,
			Product:   order.ProductSnapshot{Name: "Mug", Price: decimal.RequireFromString("20.50")},
		},
	}
	o, err := order.NewOrder(userID, lines, testAddress(t), order.PaymentMethodPhonePe, order.DefaultPricingPolicy())
	require.NoError(t, err)
	o.CreatedAt = createdAt
	o.UpdatedAt = createdAt
	for i := range o.Items {
		o.Items[i].CreatedAt = createdAt
	}
	return o
}
