package order

import (
	"github.com/shopspring/decimal"
)

// PricingPolicy holds the store-wide charges applied to a new order
type PricingPolicy struct {
	// FreeShippingThreshold: subtotals strictly above it ship free
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricingPolicy returns the storefront defaults: free shipping above 50,
// otherwise 9.99, and 18% tax.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

// Totals is the breakdown of an order amount
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping_amount"`
	Tax      decimal.Decimal `json:"tax_amount"`
	Discount decimal.Decimal `json:"discount_amount"`
	Total    decimal.Decimal `json:"total_amount"`
}

// ShippingFor returns the shipping charge for a subtotal
func (p PricingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFee
}

// TaxFor returns subtotal x tax rate rounded to 2 decimal places
func (p PricingPolicy) TaxFor(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

// Compute derives the full totals for a subtotal. No discounts are applied.
func (p PricingPolicy) Compute(subtotal decimal.Decimal) Totals {
	shipping := p.ShippingFor(subtotal)
	tax := p.TaxFor(subtotal)
	discount := decimal.Zero
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Sub(discount).Add(shipping).Add(tax),
	}
}
