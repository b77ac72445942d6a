package valueobject

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code
type Currency string

// INR is the only currency the storefront sells in
const INR Currency = "INR"

// paisePerRupee converts rupee amounts to gateway minor units
const paisePerRupee = 100

// Money is an immutable amount in a currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoneyINR wraps a rupee amount
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// MinorUnits returns the amount in paise, the unit payment gateways charge in.
// Sub-paisa fractions round half away from zero, so 7.195 becomes 720.
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(decimal.NewFromInt(paisePerRupee)).Round(0).IntPart()
}

// String formats the amount with two decimals, e.g. "49.99 INR"
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}
