package order

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func testAddress() valueobject.ShippingAddress {
	return valueobject.ShippingAddress{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Country:      "India",
	}
}

func testLine(name, price string, qty int) Line {
	return Line{
		ProductID: uuid.New(),
		Quantity:  qty,
		Product: ProductSnapshot{
			Name:   name,
			Images: []string{"https://cdn.example.com/" + name + ".jpg"},
			Price:  decimal.RequireFromString(price),
		},
	}
}

func zeroTaxPolicy() PricingPolicy {
	p := DefaultPricingPolicy()
	p.TaxRate = decimal.Zero
	return p
}

func createTestOrder(t *testing.T, method PaymentMethod) *Order {
	o, err := NewOrder(uuid.New(), []Line{testLine("mug", "25.00", 2)}, testAddress(), method, DefaultPricingPolicy())
	require.NoError(t, err)
	return o
}

// ============================================
// Status Tests
// ============================================

func TestStatus_CanTransitionTo_Exhaustive(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodPhonePe.IsValid())
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.False(t, PaymentMethod("card").IsValid())
}

// ============================================
// Pricing Tests
// ============================================

func TestPricingPolicy_Compute(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		policy   PricingPolicy
		shipping string
		tax      string
		total    string
	}{
		{"below threshold pays fee", "40.00", zeroTaxPolicy(), "9.99", "0", "49.99"},
		{"above threshold ships free", "60.00", zeroTaxPolicy(), "0", "0", "60.00"},
		{"exactly threshold pays fee", "50.00", zeroTaxPolicy(), "9.99", "0", "59.99"},
		{"default tax", "100.00", DefaultPricingPolicy(), "0", "18.00", "118.00"},
		{"tax rounded to 2dp", "33.33", DefaultPricingPolicy(), "9.99", "6.00", "49.32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Compute(decimal.RequireFromString(tt.subtotal))
			assert.True(t, got.Shipping.Equal(decimal.RequireFromString(tt.shipping)), "shipping %s", got.Shipping)
			assert.True(t, got.Tax.Equal(decimal.RequireFromString(tt.tax)), "tax %s", got.Tax)
			assert.True(t, got.Discount.IsZero())
			assert.True(t, got.Total.Equal(decimal.RequireFromString(tt.total)), "total %s", got.Total)
		})
	}
}

func TestNewOrder_TotalsInvariantForRandomCarts(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	policy := DefaultPricingPolicy()

	for i := 0; i < 200; i++ {
		n := 1 + rng.IntN(5)
		lines := make([]Line, 0, n)
		for j := 0; j < n; j++ {
			price := decimal.New(int64(rng.IntN(20000)), -2)
			lines = append(lines, testLine("item", price.StringFixed(2), 1+rng.IntN(4)))
		}

		o, err := NewOrder(uuid.New(), lines, testAddress(), PaymentMethodCOD, policy)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, item := range o.Items {
			assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
			sum = sum.Add(item.TotalPrice)
		}
		assert.True(t, o.Subtotal.Equal(sum))
		assert.True(t, o.TotalAmount.Equal(o.Subtotal.Sub(o.DiscountAmount).Add(o.ShippingAmount).Add(o.TaxAmount)))
		assert.True(t, o.TaxAmount.Equal(o.Subtotal.Mul(policy.TaxRate).Round(2)))
		if o.Subtotal.GreaterThan(policy.FreeShippingThreshold) {
			assert.True(t, o.ShippingAmount.IsZero())
		} else {
			assert.True(t, o.ShippingAmount.Equal(policy.ShippingFee))
		}
	}
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	userID := uuid.New()
	o, err := NewOrder(userID, []Line{testLine("mug", "20.00", 2)}, testAddress(), PaymentMethodPhonePe, zeroTaxPolicy())
	require.NoError(t, err)

	assert.Equal(t, userID, o.UserID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, o.ID, o.Items[0].OrderID)
	assert.Equal(t, "49.99", o.TotalAmount.StringFixed(2))
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{13}[A-Z0-9]{5}$`), o.OrderNumber)
}

func TestNewOrder_ItemPositions(t *testing.T) {
	lines := []Line{testLine("tea", "5.00", 1), testLine("mug", "20.00", 1), testLine("spoon", "2.00", 3)}
	o, err := NewOrder(uuid.New(), lines, testAddress(), PaymentMethodCOD, DefaultPricingPolicy())
	require.NoError(t, err)

	for i, item := range o.Items {
		assert.Equal(t, i, item.Position)
		assert.Equal(t, lines[i].Product.Name, item.Product.Name)
	}
}

func TestNewOrder_Validation(t *testing.T) {
	lines := []Line{testLine("mug", "10.00", 1)}

	tests := []struct {
		name    string
		userID  uuid.UUID
		lines   []Line
		address valueobject.ShippingAddress
		method  PaymentMethod
		wantErr error
	}{
		{"anonymous", uuid.Nil, lines, testAddress(), PaymentMethodCOD, shared.ErrAuthRequired},
		{"empty cart", uuid.New(), nil, testAddress(), PaymentMethodCOD, shared.ErrValidation},
		{"missing address", uuid.New(), lines, valueobject.ShippingAddress{}, PaymentMethodCOD, shared.ErrValidation},
		{"incomplete address", uuid.New(), lines, valueobject.ShippingAddress{FullName: "A", Phone: "9876543210"}, PaymentMethodCOD, shared.ErrValidation},
		{"unknown method", uuid.New(), lines, testAddress(), PaymentMethod("card"), shared.ErrValidation},
		{"zero quantity", uuid.New(), []Line{testLine("mug", "10.00", 0)}, testAddress(), PaymentMethodCOD, shared.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(tt.userID, tt.lines, tt.address, tt.method, DefaultPricingPolicy())
			assert.Nil(t, o)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

// ============================================
// Transition Tests
// ============================================

func TestOrder_UpdateStatus_OnlyDeliveredStampsDeliveredAt(t *testing.T) {
	o := createTestOrder(t, PaymentMethodCOD)

	for _, next := range []Status{StatusConfirmed, StatusProcessing, StatusShipped} {
		require.NoError(t, o.UpdateStatus(next))
		assert.Nil(t, o.DeliveredAt)
	}

	require.NoError(t, o.UpdateStatus(StatusDelivered))
	assert.NotNil(t, o.DeliveredAt)
}

func TestOrder_UpdateStatus_RejectsAndKeepsStatus(t *testing.T) {
	o := createTestOrder(t, PaymentMethodCOD)

	err := o.UpdateStatus(StatusShipped)
	assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
	assert.Equal(t, StatusPending, o.Status)

	err = o.UpdateStatus(StatusRefunded)
	assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
	assert.Equal(t, StatusPending, o.Status)

	err = o.UpdateStatus(Status("lost"))
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestOrder_Cancel(t *testing.T) {
	o := createTestOrder(t, PaymentMethodCOD)
	require.NoError(t, o.Cancel())
	assert.Equal(t, StatusCancelled, o.Status)

	shipped := createTestOrder(t, PaymentMethodCOD)
	require.NoError(t, shipped.UpdateStatus(StatusConfirmed))
	require.NoError(t, shipped.UpdateStatus(StatusProcessing))
	err := shipped.Cancel()
	assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
	assert.Equal(t, StatusProcessing, shipped.Status)
}

// ============================================
// Payment Tests
// ============================================

func TestOrder_PaymentConfirmation(t *testing.T) {
	o := createTestOrder(t, PaymentMethodPhonePe)
	require.NoError(t, o.AttachPaymentTransaction("TXN1"))

	err := o.ConfirmPayment("TXN2", "T-9")
	assert.True(t, errors.Is(err, shared.ErrPaymentNotConfirmed))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)

	require.NoError(t, o.ConfirmPayment("TXN1", "T-9"))
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "T-9", o.PaymentID)

	// Repeating the confirmation is a no-op
	require.NoError(t, o.ConfirmPayment("TXN1", "T-9"))
	assert.Equal(t, StatusConfirmed, o.Status)
}

func TestOrder_AttachPaymentTransaction(t *testing.T) {
	cod := createTestOrder(t, PaymentMethodCOD)
	assert.True(t, errors.Is(cod.AttachPaymentTransaction("TXN1"), shared.ErrValidation))

	o := createTestOrder(t, PaymentMethodPhonePe)
	require.NoError(t, o.AttachPaymentTransaction("TXN1"))
	require.NoError(t, o.MarkPaymentFailed("TXN1"))
	assert.Equal(t, PaymentFailed, o.PaymentStatus)
	assert.Equal(t, StatusPending, o.Status)

	// retry after a failure
	require.NoError(t, o.AttachPaymentTransaction("TXN2"))
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, "TXN2", o.PaymentTransactionID)
}

func TestOrder_ConfirmPayment_EarlierAttempt(t *testing.T) {
	o := createTestOrder(t, PaymentMethodPhonePe)
	require.NoError(t, o.AttachPaymentTransaction("TXN1"))
	require.NoError(t, o.AttachPaymentTransaction("TXN2"))
	assert.Equal(t, []string{"TXN1", "TXN2"}, o.PaymentAttempts)
	assert.True(t, o.HasPaymentAttempt("TXN1"))
	assert.False(t, o.HasPaymentAttempt("TXN3"))
	assert.False(t, o.HasPaymentAttempt(""))

	// a failure on the superseded page leaves the live one pending
	require.NoError(t, o.MarkPaymentFailed("TXN1"))
	assert.Equal(t, PaymentPending, o.PaymentStatus)

	require.NoError(t, o.ConfirmPayment("TXN1", "T-1"))
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "TXN1", o.PaymentTransactionID)

	err := o.ConfirmPayment("TXN2", "T-2")
	assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
	assert.Equal(t, "T-1", o.PaymentID)
}

func TestOrder_ConfirmPayment_KeepsAdminStatus(t *testing.T) {
	for _, st := range []Status{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered} {
		t.Run(string(st), func(t *testing.T) {
			o := createTestOrder(t, PaymentMethodPhonePe)
			require.NoError(t, o.AttachPaymentTransaction("TXN1"))
			o.Status = st

			require.NoError(t, o.ConfirmPayment("TXN1", "T-1"))
			assert.Equal(t, st, o.Status)
			assert.Equal(t, PaymentCompleted, o.PaymentStatus)
			assert.True(t, o.CODAmount().IsZero())
		})
	}

	for _, st := range []Status{StatusCancelled, StatusRefunded} {
		t.Run(string(st), func(t *testing.T) {
			o := createTestOrder(t, PaymentMethodPhonePe)
			require.NoError(t, o.AttachPaymentTransaction("TXN1"))
			o.Status = st

			err := o.ConfirmPayment("TXN1", "T-1")
			assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
			assert.Equal(t, PaymentPending, o.PaymentStatus)
		})
	}
}

func TestOrder_CODAmountFollowsMethod(t *testing.T) {
	online := createTestOrder(t, PaymentMethodPhonePe)
	require.NoError(t, online.UpdateStatus(StatusConfirmed))
	assert.Equal(t, PaymentPending, online.PaymentStatus)
	assert.True(t, online.CODAmount().IsZero())

	cod := createTestOrder(t, PaymentMethodCOD)
	require.NoError(t, cod.UpdateStatus(StatusConfirmed))
	assert.True(t, cod.CODAmount().Equal(cod.TotalAmount))

	cod.PaymentStatus = PaymentRefunded
	assert.True(t, cod.CODAmount().IsZero())
}

func TestOrder_Refund(t *testing.T) {
	o := createTestOrder(t, PaymentMethodPhonePe)
	assert.True(t, errors.Is(o.Refund(), shared.ErrInvalidTransition))

	require.NoError(t, o.AttachPaymentTransaction("TXN1"))
	require.NoError(t, o.ConfirmPayment("TXN1", "T-1"))
	require.NoError(t, o.Refund())
	assert.Equal(t, StatusRefunded, o.Status)
	assert.Equal(t, PaymentRefunded, o.PaymentStatus)
	assert.True(t, errors.Is(o.Refund(), shared.ErrInvalidTransition))
}

// ============================================
// Shipment Tests
// ============================================

func TestOrder_MarkShipped(t *testing.T) {
	booking := Shipment{Carrier: DeliveryPartnerDelhivery, TrackingID: "REF1", AWBNumber: "AWB1", EstimatedDelivery: "2026-01-05"}

	for _, st := range AllStatuses {
		t.Run(string(st), func(t *testing.T) {
			o := createTestOrder(t, PaymentMethodCOD)
			o.Status = st
			err := o.MarkShipped(booking)
			if st == StatusConfirmed || st == StatusProcessing {
				require.NoError(t, err)
				assert.Equal(t, StatusShipped, o.Status)
				assert.Equal(t, "AWB1", o.AWBNumber)
				assert.True(t, o.HasTracking())
				return
			}
			assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
			assert.Equal(t, st, o.Status)
			assert.False(t, o.HasTracking())
		})
	}
}

func TestOrder_PackageAndCOD(t *testing.T) {
	o, err := NewOrder(uuid.New(), []Line{testLine("a", "10.00", 3), testLine("b", "5.00", 1)}, testAddress(), PaymentMethodCOD, DefaultPricingPolicy())
	require.NoError(t, err)

	assert.Equal(t, 4, o.TotalQuantity())
	assert.True(t, o.PackageWeightKG().Equal(decimal.NewFromInt(2)))
	assert.True(t, o.CODAmount().Equal(o.TotalAmount))

	o.PaymentStatus = PaymentCompleted
	assert.True(t, o.CODAmount().IsZero())

	req := NewCreateShipmentRequest(o)
	assert.Equal(t, 4, req.Quantity)
	assert.Equal(t, PackageLengthCM, req.LengthCM)
	assert.Len(t, req.Products, 2)
	assert.True(t, req.CODAmount.IsZero())
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	n := GenerateOrderNumber(now)
	assert.Regexp(t, `^ORD1735689600000[A-Z0-9]{5}$`, n)
}
