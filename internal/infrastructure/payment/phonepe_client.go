// Package payment contains the PhonePe payment gateway adapter.
package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	phonePePayPath    = "/pg/v1/pay"
	phonePeStatusPath = "/pg/v1/status"
	phonePeRefundPath = "/pg/v1/refund"

	gatewayPhonePe = "phonepe"

	msgPaymentUnavailable = "Payment service unavailable"
	msgPaymentFailed      = "Payment initiation failed"
	msgRefundFailed       = "Refund failed"
	msgStatusFailed       = "Could not fetch payment status"
	msgUnexpectedResponse = "Unexpected response from payment service"
)

// PhonePeClient implements order.PaymentGateway against the PhonePe PG v1 API.
// It performs exactly one HTTP call per operation and never retries.
type PhonePeClient struct {
	config     PhonePeConfig
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

var _ order.PaymentGateway = (*PhonePeClient)(nil)

// PhonePeOption customizes the client
type PhonePeOption func(*PhonePeClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) PhonePeOption {
	return func(p *PhonePeClient) { p.httpClient = c }
}

// WithClock sets the time source used for transaction ids
func WithClock(now func() time.Time) PhonePeOption {
	return func(p *PhonePeClient) { p.now = now }
}

// NewPhonePeClient validates cfg and builds a client
func NewPhonePeClient(cfg PhonePeConfig, logger *zap.Logger, opts ...PhonePeOption) (*PhonePeClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &PhonePeClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		logger:     logger.Named("phonepe"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Initiate opens a pay-page session and returns the URL the customer is sent to
func (c *PhonePeClient) Initiate(ctx context.Context, req order.InitiatePaymentRequest) (*order.InitiatePaymentResult, error) {
	ctx, span := c.startSpan(ctx, "initiate", telemetry.WithAttribute(telemetry.SpanAttrOrderID, req.OrderID))
	defer span.End()

	amount := toPaise(req.Amount)
	if amount <= 0 {
		err := shared.NewValidationError("payment amount must be positive")
		telemetry.RecordError(span, err)
		return nil, err
	}

	txnID := c.newTransactionID("TXN")
	payload := phonePePayPayload{
		MerchantID:            c.config.MerchantID,
		MerchantTransactionID: txnID,
		MerchantUserID:        req.UserID.String(),
		Amount:                amount,
		RedirectURL:           c.redirectURL(req.OrderID),
		RedirectMode:          "POST",
		CallbackURL:           c.config.CallbackURL,
		MobileNumber:          req.Phone,
		DeviceContext:         phonePeDeviceContext{DeviceOS: "WEB"},
		PaymentInstrument:     phonePePaymentInstrument{Type: "PAY_PAGE"},
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrTransactionID, txnID, telemetry.SpanAttrAmount, amount)

	resp, err := c.postSigned(ctx, "initiate", phonePePayPath, payload, msgPaymentFailed)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !resp.Success || resp.Data == nil || resp.Data.InstrumentResponse == nil ||
		resp.Data.InstrumentResponse.RedirectInfo == nil || resp.Data.InstrumentResponse.RedirectInfo.URL == "" {
		err := c.rejected("initiate", resp.Code, firstNonEmpty(resp.Message, msgPaymentFailed))
		telemetry.RecordError(span, err)
		return nil, err
	}

	c.logger.Info("Payment initiated",
		zap.String("order_id", req.OrderID.String()),
		zap.String("merchant_transaction_id", txnID),
		zap.Int64("amount_paise", amount),
	)
	return &order.InitiatePaymentResult{
		MerchantTransactionID: txnID,
		RedirectURL:           resp.Data.InstrumentResponse.RedirectInfo.URL,
	}, nil
}

// CheckStatus asks PhonePe for the current state of a transaction.
// A well-formed non-success answer is returned as a result, not an error.
func (c *PhonePeClient) CheckStatus(ctx context.Context, merchantTxnID string) (*order.PaymentStatusResult, error) {
	ctx, span := c.startSpan(ctx, "status", telemetry.WithAttribute(telemetry.SpanAttrTransactionID, merchantTxnID))
	defer span.End()

	if strings.TrimSpace(merchantTxnID) == "" {
		err := shared.NewValidationError("transaction id is required")
		telemetry.RecordError(span, err)
		return nil, err
	}

	path := fmt.Sprintf("%s/%s/%s", phonePeStatusPath, c.config.MerchantID, merchantTxnID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIBaseURL()+path, nil)
	if err != nil {
		return nil, fmt.Errorf("phonepe: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", c.checksum(path))
	httpReq.Header.Set("X-MERCHANT-ID", c.config.MerchantID)

	resp, err := c.do(httpReq, "status", msgStatusFailed)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &order.PaymentStatusResult{
		Success:               resp.Success,
		Code:                  resp.Code,
		Message:               resp.Message,
		MerchantTransactionID: merchantTxnID,
	}
	state := ""
	if resp.Data != nil {
		state = resp.Data.State
		result.TransactionID = resp.Data.TransactionID
		result.AmountMinor = resp.Data.Amount
		if resp.Data.MerchantTransactionID != "" {
			result.MerchantTransactionID = resp.Data.MerchantTransactionID
		}
	}
	result.State = mapPhonePeState(state, resp.Code)
	telemetry.SetAttributes(span, "payment_state", string(result.State))
	return result, nil
}

// Refund requests a full or partial refund of a completed transaction
func (c *PhonePeClient) Refund(ctx context.Context, req order.RefundRequest) (*order.RefundResult, error) {
	ctx, span := c.startSpan(ctx, "refund",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, req.OrderID),
		telemetry.WithAttribute(telemetry.SpanAttrTransactionID, req.OriginalTransactionID),
	)
	defer span.End()

	amount := toPaise(req.Amount)
	if amount <= 0 || req.OriginalTransactionID == "" {
		err := shared.NewValidationError("refund requires an original transaction and a positive amount")
		telemetry.RecordError(span, err)
		return nil, err
	}

	refundID := c.newTransactionID("REFUND")
	payload := phonePeRefundPayload{
		MerchantID:            c.config.MerchantID,
		OriginalTransactionID: req.OriginalTransactionID,
		MerchantTransactionID: refundID,
		Amount:                amount,
		CallbackURL:           c.config.CallbackURL,
	}
	resp, err := c.postSigned(ctx, "refund", phonePeRefundPath, payload, msgRefundFailed)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !resp.Success {
		err := c.rejected("refund", resp.Code, firstNonEmpty(resp.Message, msgRefundFailed))
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &order.RefundResult{RefundTransactionID: refundID, State: string(order.PaymentStatePending), Message: resp.Message}
	if resp.Data != nil && resp.Data.State != "" {
		result.State = resp.Data.State
	}
	c.logger.Info("Refund requested",
		zap.String("order_id", req.OrderID.String()),
		zap.String("refund_transaction_id", refundID),
		zap.Int64("amount_paise", amount),
	)
	return result, nil
}

// VerifyCallback checks the X-VERIFY header of a server-to-server callback
// and decodes its base64 body
func (c *PhonePeClient) VerifyCallback(ctx context.Context, xVerify, response string) (*order.PaymentCallback, error) {
	_, span := c.startSpan(ctx, "callback")
	defer span.End()

	expected := c.checksum(response)
	if xVerify == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(xVerify)) != 1 {
		err := &order.GatewayError{Gateway: gatewayPhonePe, Op: "callback", Reason: "Invalid callback signature", Err: order.ErrInvalidChecksum}
		telemetry.RecordError(span, err)
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(response)
	if err != nil {
		return nil, c.rejected("callback", "", "Malformed callback payload")
	}
	var decoded phonePeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Data == nil {
		return nil, c.rejected("callback", "", "Malformed callback payload")
	}

	cb := &order.PaymentCallback{
		Success:               decoded.Success,
		Code:                  decoded.Code,
		MerchantTransactionID: decoded.Data.MerchantTransactionID,
		TransactionID:         decoded.Data.TransactionID,
		State:                 mapPhonePeState(decoded.Data.State, decoded.Code),
		AmountMinor:           decoded.Data.Amount,
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTransactionID, cb.MerchantTransactionID,
		"payment_state", string(cb.State),
	)
	return cb, nil
}

func (c *PhonePeClient) postSigned(ctx context.Context, op, path string, payload any, failureMsg string) (*phonePeResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("phonepe: failed to marshal request: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	body, err := json.Marshal(phonePeEnvelope{Request: encoded})
	if err != nil {
		return nil, fmt.Errorf("phonepe: failed to marshal envelope: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("phonepe: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", c.checksum(encoded+path))
	return c.do(httpReq, op, failureMsg)
}

func (c *PhonePeClient) do(httpReq *http.Request, op, failureMsg string) (*phonePeResponse, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("PhonePe request failed", zap.String("op", op), zap.Error(err))
		return nil, &order.GatewayError{Gateway: gatewayPhonePe, Op: op, Reason: msgPaymentUnavailable, Err: fmt.Errorf("%w: %v", order.ErrGatewayUnavailable, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &order.GatewayError{Gateway: gatewayPhonePe, Op: op, Reason: msgPaymentUnavailable, Err: fmt.Errorf("%w: %v", order.ErrGatewayUnavailable, err)}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warn("PhonePe server error", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return nil, &order.GatewayError{Gateway: gatewayPhonePe, Op: op, Code: strconv.Itoa(resp.StatusCode), Reason: msgPaymentUnavailable, Err: order.ErrGatewayUnavailable}
	}

	var parsed phonePeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		reason := msgUnexpectedResponse
		if resp.StatusCode >= http.StatusBadRequest {
			reason = failureMsg
		}
		return nil, c.rejected(op, strconv.Itoa(resp.StatusCode), reason)
	}
	return &parsed, nil
}

func (c *PhonePeClient) rejected(op, code, reason string) error {
	c.logger.Warn("PhonePe rejected request", zap.String("op", op), zap.String("code", code), zap.String("reason", reason))
	return &order.GatewayError{Gateway: gatewayPhonePe, Op: op, Code: code, Reason: reason, Err: order.ErrGatewayRejected}
}

// checksum is sha256(data + saltKey) in hex, followed by ###saltIndex
func (c *PhonePeClient) checksum(data string) string {
	sum := sha256.Sum256([]byte(data + c.config.SaltKey))
	return hex.EncodeToString(sum[:]) + "###" + c.config.SaltIndex
}

func (c *PhonePeClient) redirectURL(orderID uuid.UUID) string {
	sep := "?"
	if strings.Contains(c.config.RedirectURL, "?") {
		sep = "&"
	}
	return c.config.RedirectURL + sep + "orderId=" + orderID.String()
}

// newTransactionID is prefix + unix millis + 9 lowercase alphanumerics
func (c *PhonePeClient) newTransactionID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return prefix + strconv.FormatInt(c.now().UnixMilli(), 10) + suffix
}

func (c *PhonePeClient) startSpan(ctx context.Context, op string, opts ...telemetry.SpanOption) (context.Context, trace.Span) {
	opts = append(opts,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrGateway, gatewayPhonePe),
	)
	return telemetry.StartSpan(ctx, "phonepe."+op, opts...)
}

func mapPhonePeState(state, code string) order.PaymentState {
	switch strings.ToUpper(state) {
	case "COMPLETED":
		return order.PaymentStateCompleted
	case "PENDING":
		return order.PaymentStatePending
	case "FAILED":
		return order.PaymentStateFailed
	}
	switch code {
	case "PAYMENT_SUCCESS":
		return order.PaymentStateCompleted
	case "PAYMENT_PENDING", "INTERNAL_SERVER_ERROR":
		return order.PaymentStatePending
	default:
		return order.PaymentStateFailed
	}
}

// toPaise converts rupees to integer paise, rounding half away from zero
func toPaise(amount decimal.Decimal) int64 {
	return valueobject.NewMoneyINR(amount).MinorUnits()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
