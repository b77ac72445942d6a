package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DeliveryPartnerDelhivery is the carrier name stored on shipped orders
const DeliveryPartnerDelhivery = "Delhivery"

// ProductSnapshot is the product data captured when the order was placed.
// It never changes after creation, whatever happens to the catalog.
type ProductSnapshot struct {
	Name          string           `json:"name"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
}

// Value implements driver.Valuer for JSON column storage
func (s ProductSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSON column storage
func (s *ProductSnapshot) Scan(value any) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("product snapshot: unsupported scan type")
	}
	return json.Unmarshal(raw, s)
}

// Item is a line of an order
type Item struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Product    ProductSnapshot
	Position   int
	CreatedAt  time.Time
}

// Line is the input for one order item: a product at its current catalog state
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	Product   ProductSnapshot
}

// Order is the aggregate root for a customer purchase
type Order struct {
	shared.BaseEntity
	UserID               uuid.UUID
	OrderNumber          string
	Items                []Item
	Subtotal             decimal.Decimal
	ShippingAmount       decimal.Decimal
	TaxAmount            decimal.Decimal
	DiscountAmount       decimal.Decimal
	TotalAmount          decimal.Decimal
	ShippingAddress      valueobject.ShippingAddress
	BillingAddress       *valueobject.ShippingAddress
	Status               Status
	PaymentStatus        PaymentStatus
	PaymentMethod        PaymentMethod
	PaymentTransactionID string
	PaymentAttempts      []string // merchant transaction ids issued for this order, oldest first
	PaymentID            string
	DeliveryPartner      string
	TrackingID           string
	AWBNumber            string
	EstimatedDelivery    string
	DeliveredAt          *time.Time
	Notes                string
}

// NewOrder builds a pending order from the given lines.
// Totals are computed here once and never recomputed afterwards.
func NewOrder(userID uuid.UUID, lines []Line, address valueobject.ShippingAddress, method PaymentMethod, policy PricingPolicy) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Cart is empty")
	}
	if address.IsEmpty() {
		return nil, shared.NewValidationError("Shipping address is required")
	}
	if err := address.Validate(); err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation, "Shipping address is incomplete: "+err.Error(), err)
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Unsupported payment method: %q", method)
	}

	o := &Order{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		OrderNumber:     GenerateOrderNumber(time.Now()),
		ShippingAddress: address,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   method,
		Items:           make([]Item, 0, len(lines)),
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Order line has no product")
		}
		if line.Quantity <= 0 {
			return nil, shared.NewValidationError("Quantity for %s must be positive", line.Product.Name)
		}
		if line.Product.Price.IsNegative() {
			return nil, shared.NewValidationError("Price for %s cannot be negative", line.Product.Name)
		}
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		o.Items = append(o.Items, Item{
			ID:         uuid.New(),
			OrderID:    o.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.Product.Price,
			TotalPrice: lineTotal,
			Product:    line.Product,
			Position:   i,
			CreatedAt:  o.CreatedAt,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	totals := policy.Compute(subtotal)
	o.Subtotal = totals.Subtotal
	o.ShippingAmount = totals.Shipping
	o.TaxAmount = totals.Tax
	o.DiscountAmount = totals.Discount
	o.TotalAmount = totals.Total
	return o, nil
}

// Totals returns the stored amount breakdown
func (o *Order) Totals() Totals {
	return Totals{
		Subtotal: o.Subtotal,
		Shipping: o.ShippingAmount,
		Tax:      o.TaxAmount,
		Discount: o.DiscountAmount,
		Total:    o.TotalAmount,
	}
}

// Total returns the final amount as money
func (o *Order) Total() valueobject.Money {
	return valueobject.NewMoneyINR(o.TotalAmount)
}

// TotalQuantity returns the number of units across all items
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy reports whether the order belongs to userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// UpdateStatus moves the order along the transition table.
// Only the move to delivered stamps DeliveredAt.
func (o *Order) UpdateStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError("Unknown order status: %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(o.Status.String(), target.String())
	}
	o.Status = target
	if target == StatusDelivered {
		now := time.Now()
		o.DeliveredAt = &now
	}
	o.Touch()
	return nil
}

// Cancel cancels the order on the customer's behalf.
// Customers may cancel only before the order is handed to the carrier.
func (o *Order) Cancel() error {
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return shared.NewInvalidTransitionError(o.Status.String(), StatusCancelled.String())
	}
	return o.UpdateStatus(StatusCancelled)
}

// CanInitiatePayment reports whether an online payment may be started
func (o *Order) CanInitiatePayment() error {
	if o.PaymentMethod != PaymentMethodPhonePe {
		return shared.NewValidationError("Order %s is not paid online", o.OrderNumber)
	}
	if o.Status != StatusPending {
		return shared.NewInvalidTransitionError(o.Status.String(), StatusConfirmed.String())
	}
	if o.PaymentStatus == PaymentCompleted || o.PaymentStatus == PaymentRefunded {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Order is already paid")
	}
	return nil
}

// AttachPaymentTransaction records the merchant transaction id sent to the gateway.
// A failed earlier attempt is reset to pending so the customer can retry.
// Earlier ids stay in PaymentAttempts since their pay pages remain payable.
func (o *Order) AttachPaymentTransaction(merchantTxnID string) error {
	if err := o.CanInitiatePayment(); err != nil {
		return err
	}
	if merchantTxnID == "" {
		return shared.NewValidationError("Merchant transaction id is required")
	}
	if !slices.Contains(o.PaymentAttempts, merchantTxnID) {
		o.PaymentAttempts = append(o.PaymentAttempts, merchantTxnID)
	}
	o.PaymentTransactionID = merchantTxnID
	o.PaymentStatus = PaymentPending
	o.Touch()
	return nil
}

// HasPaymentAttempt reports whether merchantTxnID was issued for this order
func (o *Order) HasPaymentAttempt(merchantTxnID string) bool {
	if merchantTxnID == "" {
		return false
	}
	return merchantTxnID == o.PaymentTransactionID || slices.Contains(o.PaymentAttempts, merchantTxnID)
}

// HasPendingPaymentAttempt reports whether an issued pay page may still be completed
func (o *Order) HasPendingPaymentAttempt() bool {
	return o.PaymentStatus == PaymentPending && o.PaymentTransactionID != ""
}

// IsPaymentConfirmedFor reports whether the order was already confirmed by merchantTxnID
func (o *Order) IsPaymentConfirmedFor(merchantTxnID string) bool {
	return o.PaymentStatus == PaymentCompleted && o.PaymentTransactionID != "" && o.PaymentTransactionID == merchantTxnID
}

// ConfirmPayment marks the payment completed by any of the order's attempts.
// A pending order moves to confirmed; an order an admin already moved forward
// keeps its status. The caller must have verified the transaction with the
// gateway first.
func (o *Order) ConfirmPayment(merchantTxnID, gatewayPaymentID string) error {
	if !o.HasPaymentAttempt(merchantTxnID) {
		return shared.NewDomainError(shared.CodePaymentNotConfirmed, "Transaction does not belong to this order")
	}
	if o.IsPaymentConfirmedFor(merchantTxnID) {
		return nil
	}
	if o.PaymentStatus == PaymentCompleted || o.PaymentStatus == PaymentRefunded {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Order is already paid by another transaction")
	}
	switch o.Status {
	case StatusPending:
		o.Status = StatusConfirmed
	case StatusCancelled, StatusRefunded:
		return shared.NewInvalidTransitionError(o.Status.String(), StatusConfirmed.String())
	}
	o.PaymentStatus = PaymentCompleted
	o.PaymentTransactionID = merchantTxnID
	o.PaymentID = gatewayPaymentID
	o.Touch()
	return nil
}

// MarkPaymentFailed records a gateway-reported failure. The order stays pending.
// A failed superseded attempt does not touch the current one.
func (o *Order) MarkPaymentFailed(merchantTxnID string) error {
	if !o.HasPaymentAttempt(merchantTxnID) {
		return shared.NewDomainError(shared.CodePaymentNotConfirmed, "Transaction does not belong to this order")
	}
	if o.PaymentStatus == PaymentCompleted || o.PaymentStatus == PaymentRefunded {
		return nil
	}
	if merchantTxnID != o.PaymentTransactionID {
		return nil
	}
	o.PaymentStatus = PaymentFailed
	o.Touch()
	return nil
}

// Shipment describes a booked carrier shipment
type Shipment struct {
	Carrier           string
	TrackingID        string
	AWBNumber         string
	EstimatedDelivery string
}

// MarkShipped stores the carrier booking and moves the order to shipped
func (o *Order) MarkShipped(s Shipment) error {
	if !o.Status.CanShip() {
		return shared.NewInvalidTransitionError(o.Status.String(), StatusShipped.String())
	}
	if s.AWBNumber == "" && s.TrackingID == "" {
		return shared.NewDomainError(shared.CodeShipment, "Carrier returned no waybill")
	}
	o.DeliveryPartner = s.Carrier
	o.TrackingID = s.TrackingID
	o.AWBNumber = s.AWBNumber
	o.EstimatedDelivery = s.EstimatedDelivery
	o.Status = StatusShipped
	o.Touch()
	return nil
}

// HasTracking reports whether a carrier reference is stored
func (o *Order) HasTracking() bool {
	return o.AWBNumber != "" || o.TrackingID != ""
}

// TrackingReference returns the AWB, falling back to the tracking id
func (o *Order) TrackingReference() string {
	if o.AWBNumber != "" {
		return o.AWBNumber
	}
	return o.TrackingID
}

// CanRefund checks that the payment was completed and not yet refunded
func (o *Order) CanRefund() error {
	if o.PaymentStatus != PaymentCompleted {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("cannot refund an order with payment %s", o.PaymentStatus))
	}
	if o.PaymentTransactionID == "" {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Order has no gateway transaction to refund")
	}
	return nil
}

// Refund marks payment and order refunded after the gateway accepted the refund
func (o *Order) Refund() error {
	if err := o.CanRefund(); err != nil {
		return err
	}
	o.PaymentStatus = PaymentRefunded
	o.Status = StatusRefunded
	o.Touch()
	return nil
}

// CODAmount is the amount the carrier collects on delivery.
// Only cash-on-delivery orders that are not yet settled collect anything.
func (o *Order) CODAmount() decimal.Decimal {
	if o.PaymentMethod != PaymentMethodCOD {
		return decimal.Zero
	}
	if o.PaymentStatus == PaymentCompleted || o.PaymentStatus == PaymentRefunded {
		return decimal.Zero
	}
	return o.TotalAmount
}

// Package dimensions used for every shipment, in centimetres
const (
	PackageLengthCM = 30
	PackageWidthCM  = 20
	PackageHeightCM = 10
)

// PackageWeightKG returns 0.5 kg per unit with a 0.5 kg minimum
func (o *Order) PackageWeightKG() decimal.Decimal {
	half := decimal.RequireFromString("0.5")
	w := half.Mul(decimal.NewFromInt(int64(o.TotalQuantity())))
	if w.LessThan(half) {
		return half
	}
	return w
}

const orderSuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns "ORD" + unix millis + 5 uppercase alphanumerics
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = orderSuffixAlphabet[rand.IntN(len(orderSuffixAlphabet))]
	}
	return "ORD" + strconv.FormatInt(now.UnixMilli(), 10) + string(suffix)
}
