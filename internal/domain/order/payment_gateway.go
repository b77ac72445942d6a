package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentGateway is the port to the online payment provider.
// Implementations never mutate orders.
type PaymentGateway interface {
	Initiate(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResult, error)
	CheckStatus(ctx context.Context, merchantTxnID string) (*PaymentStatusResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	VerifyCallback(ctx context.Context, xVerify, response string) (*PaymentCallback, error)
}

// InitiatePaymentRequest is the input for a pay-page session
type InitiatePaymentRequest struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
	Amount  decimal.Decimal
	Phone   string
}

// InitiatePaymentResult is returned when the gateway accepted the pay request
type InitiatePaymentResult struct {
	MerchantTransactionID string `json:"merchant_transaction_id"`
	RedirectURL           string `json:"redirect_url"`
}

// PaymentState is the gateway-reported state of a transaction
type PaymentState string

const (
	PaymentStateCompleted PaymentState = "COMPLETED"
	PaymentStatePending   PaymentState = "PENDING"
	PaymentStateFailed    PaymentState = "FAILED"
)

// PaymentStatusResult is the gateway view of one transaction
type PaymentStatusResult struct {
	Success               bool         `json:"success"`
	Code                  string       `json:"code"`
	Message               string       `json:"message"`
	State                 PaymentState `json:"state"`
	MerchantTransactionID string       `json:"merchant_transaction_id"`
	TransactionID         string       `json:"transaction_id"`
	AmountMinor           int64        `json:"amount"`
}

// IsPaid reports whether the gateway says the money was captured
func (r *PaymentStatusResult) IsPaid() bool {
	return r != nil && r.Success && r.State == PaymentStateCompleted
}

// IsFailed reports a definitive gateway failure
func (r *PaymentStatusResult) IsFailed() bool {
	return r != nil && r.State == PaymentStateFailed
}

// RefundRequest is the input for a refund of a completed transaction
type RefundRequest struct {
	OrderID               uuid.UUID
	OriginalTransactionID string
	Amount                decimal.Decimal
}

// RefundResult is returned when the gateway accepted a refund
type RefundResult struct {
	RefundTransactionID string `json:"refund_transaction_id"`
	State               string `json:"state"`
	Message             string `json:"message"`
}

// PaymentCallback is the decoded, checksum-verified server-to-server callback
type PaymentCallback struct {
	Success               bool
	Code                  string
	MerchantTransactionID string
	TransactionID         string
	State                 PaymentState
	AmountMinor           int64
}
