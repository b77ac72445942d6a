package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressInput is a delivery address typed in at checkout
type AddressInput struct {
	FullName     string `json:"full_name" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"required,phone_in"`
	AddressLine1 string `json:"address_line_1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line_2" binding:"max=200"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	Pincode      string `json:"pincode" binding:"required,pincode"`
}

// ToValue converts the input to a shipping address value
func (a AddressInput) ToValue() valueobject.ShippingAddress {
	return valueobject.ShippingAddress{
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Country:      valueobject.DefaultCountry,
	}
}

// CreateOrderRequest is the checkout submission. Either AddressID (a saved
// address) or ShippingAddress must be given.
type CreateOrderRequest struct {
	AddressID       *uuid.UUID    `json:"address_id"`
	ShippingAddress *AddressInput `json:"shipping_address"`
	PaymentMethod   string        `json:"payment_method" binding:"required,oneof=phonepe cod"`
	Notes           string        `json:"notes" binding:"max=500"`
}

// UpdateStatusRequest is an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
}

// ConfirmPaymentRequest carries the merchant transaction id returned to the redirect page
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"max=64"`
}

// PaymentCallbackRequest is the server-to-server callback body
type PaymentCallbackRequest struct {
	Response string `json:"response" binding:"required"`
}

// ShippingQuoteRequest asks whether and for how much a pincode can be served
type ShippingQuoteRequest struct {
	Pincode   string  `form:"pincode" binding:"required,pincode"`
	WeightKG  float64 `form:"weight" binding:"omitempty,min=0,max=100"`
	COD       bool    `form:"cod"`
	CODAmount float64 `form:"cod_amount" binding:"omitempty,min=0"`
}

// ItemResponse is one order line
type ItemResponse struct {
	ID         uuid.UUID             `json:"id"`
	ProductID  uuid.UUID             `json:"product_id"`
	Quantity   int                   `json:"quantity"`
	UnitPrice  decimal.Decimal       `json:"unit_price"`
	TotalPrice decimal.Decimal       `json:"total_price"`
	Product    order.ProductSnapshot `json:"product"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                   uuid.UUID                    `json:"id"`
	UserID               uuid.UUID                    `json:"user_id"`
	OrderNumber          string                       `json:"order_number"`
	Items                []ItemResponse               `json:"items"`
	Subtotal             decimal.Decimal              `json:"subtotal"`
	ShippingAmount       decimal.Decimal              `json:"shipping_amount"`
	TaxAmount            decimal.Decimal              `json:"tax_amount"`
	DiscountAmount       decimal.Decimal              `json:"discount_amount"`
	TotalAmount          decimal.Decimal              `json:"total_amount"`
	ShippingAddress      valueobject.ShippingAddress  `json:"shipping_address"`
	BillingAddress       *valueobject.ShippingAddress `json:"billing_address,omitempty"`
	Status               string                       `json:"status"`
	PaymentStatus        string                       `json:"payment_status"`
	PaymentMethod        string                       `json:"payment_method"`
	PaymentTransactionID string                       `json:"payment_transaction_id,omitempty"`
	PaymentID            string                       `json:"payment_id,omitempty"`
	DeliveryPartner      string                       `json:"delivery_partner,omitempty"`
	TrackingID           string                       `json:"tracking_id,omitempty"`
	AWBNumber            string                       `json:"awb_number,omitempty"`
	EstimatedDelivery    string                       `json:"estimated_delivery,omitempty"`
	DeliveredAt          *time.Time                   `json:"delivered_at,omitempty"`
	Notes                string                       `json:"notes,omitempty"`
	CreatedAt            time.Time                    `json:"created_at"`
	UpdatedAt            time.Time                    `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Product:    item.Product,
		})
	}
	return OrderResponse{
		ID:                   o.ID,
		UserID:               o.UserID,
		OrderNumber:          o.OrderNumber,
		Items:                items,
		Subtotal:             o.Subtotal,
		ShippingAmount:       o.ShippingAmount,
		TaxAmount:            o.TaxAmount,
		DiscountAmount:       o.DiscountAmount,
		TotalAmount:          o.TotalAmount,
		ShippingAddress:      o.ShippingAddress,
		BillingAddress:       o.BillingAddress,
		Status:               o.Status.String(),
		PaymentStatus:        o.PaymentStatus.String(),
		PaymentMethod:        o.PaymentMethod.String(),
		PaymentTransactionID: o.PaymentTransactionID,
		PaymentID:            o.PaymentID,
		DeliveryPartner:      o.DeliveryPartner,
		TrackingID:           o.TrackingID,
		AWBNumber:            o.AWBNumber,
		EstimatedDelivery:    o.EstimatedDelivery,
		DeliveredAt:          o.DeliveredAt,
		Notes:                o.Notes,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

// InitiatePaymentResponse tells the client where to send the customer
type InitiatePaymentResponse struct {
	OrderID               uuid.UUID `json:"order_id"`
	OrderNumber           string    `json:"order_number"`
	MerchantTransactionID string    `json:"merchant_transaction_id"`
	RedirectURL           string    `json:"redirect_url"`
}

// RefundResponse is the refunded order and the gateway refund reference
type RefundResponse struct {
	Order               OrderResponse `json:"order"`
	RefundTransactionID string        `json:"refund_transaction_id"`
	State               string        `json:"state"`
}

// TrackingResponse is the carrier's view of an order's shipment
type TrackingResponse struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Carrier     string            `json:"carrier"`
	Tracking    order.TrackResult `json:"tracking"`
}

// CancelShipmentResponse reports the carrier's answer to a cancellation
type CancelShipmentResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	Waybill string    `json:"waybill"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

// ShippingQuoteResponse combines serviceability with the charge estimate.
// Rate is nil when the pincode is not serviceable.
type ShippingQuoteResponse struct {
	Serviceability order.ServiceabilityResult `json:"serviceability"`
	Rate           *order.RateResult          `json:"rate,omitempty"`
}
