package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const callbackKeyPrefix = "payment-callback:"

var errPaymentsNotConfigured = shared.NewDomainError(shared.CodeGatewayNotConfigured, "Online payments are not configured")

// InitiatePayment opens a gateway pay page for a pending online order.
// The order is never marked paid here; that happens on confirmation.
func (s *OrderService) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*InitiatePaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "initiate_payment")
	defer span.End()

	if s.payments == nil {
		return nil, errPaymentsNotConfigured
	}
	o, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CanInitiatePayment(); err != nil {
		return nil, err
	}
	if paid, err := s.settlePendingAttempt(ctx, o); err != nil {
		return nil, err
	} else if paid {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, "Order is already paid")
	}

	result, err := s.payments.Initiate(ctx, order.InitiatePaymentRequest{
		OrderID: o.ID,
		UserID:  o.UserID,
		Amount:  o.TotalAmount,
		Phone:   o.ShippingAddress.Phone,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Payment initiation failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodePaymentInitiation,
			order.GatewayReason(err, "Payment initiation failed"), err)
	}
	if result == nil || result.RedirectURL == "" || result.MerchantTransactionID == "" {
		return nil, shared.NewDomainError(shared.CodePaymentInitiation, "Payment gateway returned no redirect URL")
	}

	if err := o.AttachPaymentTransaction(result.MerchantTransactionID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Payment initiated",
		zap.String("order_id", o.ID.String()),
		zap.String("merchant_transaction_id", result.MerchantTransactionID))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID.String(),
		telemetry.SpanAttrTransactionID, result.MerchantTransactionID,
	)
	telemetry.SetOK(span)

	return &InitiatePaymentResponse{
		OrderID:               o.ID,
		OrderNumber:           o.OrderNumber,
		MerchantTransactionID: result.MerchantTransactionID,
		RedirectURL:           result.RedirectURL,
	}, nil
}

// settlePendingAttempt asks the gateway about the pay page issued last before a
// new one replaces it, and confirms the order when that page was already paid.
// A gateway error is logged and does not block the new attempt.
func (s *OrderService) settlePendingAttempt(ctx context.Context, o *order.Order) (bool, error) {
	if !o.HasPendingPaymentAttempt() {
		return false, nil
	}
	txnID := o.PaymentTransactionID
	status, err := s.payments.CheckStatus(ctx, txnID)
	if err != nil {
		s.logger.Warn("Could not check previous payment attempt",
			zap.String("order_id", o.ID.String()),
			zap.String("merchant_transaction_id", txnID),
			zap.Error(err))
		return false, nil
	}
	if status == nil || !status.IsPaid() || status.AmountMinor != o.Total().MinorUnits() {
		return false, nil
	}
	if err := o.ConfirmPayment(txnID, status.TransactionID); err != nil {
		return false, err
	}
	if err := s.save(ctx, o); err != nil {
		return false, err
	}
	s.logger.Info("Previous payment attempt was already paid",
		zap.String("order_id", o.ID.String()),
		zap.String("merchant_transaction_id", txnID))
	return true, nil
}

// ConfirmPayment confirms an order once the gateway reports the matching
// transaction as paid. Any other outcome leaves the order unchanged and
// returns PAYMENT_NOT_CONFIRMED, except a definitive gateway failure which
// marks the payment failed so the customer can retry.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, merchantTxnID string) (*OrderResponse, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.confirm(ctx, o, merchantTxnID)
}

// ConfirmPaymentForUser is the customer's explicit status poll after returning
// from the pay page. An empty transaction id uses the one stored on the order.
func (s *OrderService) ConfirmPaymentForUser(ctx context.Context, userID, orderID uuid.UUID, merchantTxnID string) (*OrderResponse, error) {
	o, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if merchantTxnID == "" {
		merchantTxnID = o.PaymentTransactionID
	}
	return s.confirm(ctx, o, merchantTxnID)
}

func (s *OrderService) confirm(ctx context.Context, o *order.Order, merchantTxnID string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "confirm_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID.String(),
		telemetry.SpanAttrTransactionID, merchantTxnID,
	)

	if o.IsPaymentConfirmedFor(merchantTxnID) {
		resp := ToOrderResponse(o)
		return &resp, nil
	}
	if !o.HasPaymentAttempt(merchantTxnID) {
		return nil, shared.NewDomainError(shared.CodePaymentNotConfirmed, "Transaction does not match this order")
	}
	if s.payments == nil {
		return nil, errPaymentsNotConfigured
	}

	status, err := s.payments.CheckStatus(ctx, merchantTxnID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError(shared.CodePayment,
			order.GatewayReason(err, "Could not verify payment status"), err)
	}
	if status == nil || (status.MerchantTransactionID != "" && status.MerchantTransactionID != merchantTxnID) {
		return nil, shared.NewDomainError(shared.CodePaymentNotConfirmed, "Gateway reported a different transaction")
	}

	if status.IsFailed() {
		if err := o.MarkPaymentFailed(merchantTxnID); err != nil {
			return nil, err
		}
		if err := s.save(ctx, o); err != nil {
			return nil, err
		}
		s.logger.Info("Payment failed",
			zap.String("order_id", o.ID.String()),
			zap.String("code", status.Code))
		return nil, shared.NewDomainError(shared.CodePaymentNotConfirmed, failureMessage(status))
	}
	if !status.IsPaid() {
		return nil, shared.NewDomainError(shared.CodePaymentNotConfirmed, "Payment is still pending")
	}
	if expected := o.Total().MinorUnits(); status.AmountMinor != expected {
		s.logger.Warn("Paid amount does not match order total",
			zap.String("order_id", o.ID.String()),
			zap.Int64("expected", expected),
			zap.Int64("reported", status.AmountMinor))
		return nil, shared.NewDomainError(shared.CodePaymentNotConfirmed, "Paid amount does not match the order total")
	}

	if err := o.ConfirmPayment(merchantTxnID, status.TransactionID); err != nil {
		s.logger.Warn("Paid transaction could not be applied",
			zap.String("order_id", o.ID.String()),
			zap.String("merchant_transaction_id", merchantTxnID),
			zap.String("status", o.Status.String()),
			zap.Error(err))
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Payment confirmed",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_id", status.TransactionID))
	telemetry.SetOK(span)
	resp := ToOrderResponse(o)
	return &resp, nil
}

func failureMessage(status *order.PaymentStatusResult) string {
	if status.Message != "" {
		return "Payment failed: " + status.Message
	}
	if status.Code != "" {
		return "Payment failed: " + status.Code
	}
	return "Payment failed"
}

// HandlePaymentCallback verifies and applies a gateway callback. A callback for a
// transaction already handled returns the order as it is without asking the
// gateway again.
func (s *OrderService) HandlePaymentCallback(ctx context.Context, xVerify, response string) (*OrderResponse, error) {
	if s.payments == nil {
		return nil, errPaymentsNotConfigured
	}
	callback, err := s.payments.VerifyCallback(ctx, xVerify, response)
	if err != nil {
		s.logger.Warn("Rejected payment callback", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodePayment,
			order.GatewayReason(err, "Invalid payment callback"), err)
	}
	if callback == nil || callback.MerchantTransactionID == "" {
		return nil, shared.NewDomainError(shared.CodePayment, "Callback carries no transaction id")
	}
	txnID := callback.MerchantTransactionID
	key := callbackKeyPrefix + txnID

	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.callbackTTL)
		switch {
		case err != nil:
			s.logger.Warn("Idempotency check failed, processing callback anyway",
				zap.String("merchant_transaction_id", txnID), zap.Error(err))
		case !fresh:
			s.logger.Info("Duplicate payment callback", zap.String("merchant_transaction_id", txnID))
			o, err := s.orders.FindByPaymentTransactionID(ctx, txnID)
			if err != nil {
				return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load order")
			}
			resp := ToOrderResponse(o)
			return &resp, nil
		}
	}

	resp, err := s.applyCallback(ctx, txnID)
	if err != nil && s.idempotency != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("Failed to release callback key",
				zap.String("key", key), zap.Error(releaseErr))
		}
	}
	return resp, err
}

func (s *OrderService) applyCallback(ctx context.Context, txnID string) (*OrderResponse, error) {
	o, err := s.orders.FindByPaymentTransactionID(ctx, txnID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load order")
	}
	return s.confirm(ctx, o, txnID)
}

// Refund returns the full amount of a completed payment and marks the order refunded
func (s *OrderService) Refund(ctx context.Context, orderID uuid.UUID) (*RefundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "refund")
	defer span.End()

	if s.payments == nil {
		return nil, errPaymentsNotConfigured
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CanRefund(); err != nil {
		return nil, err
	}

	result, err := s.payments.Refund(ctx, order.RefundRequest{
		OrderID:               o.ID,
		OriginalTransactionID: o.PaymentTransactionID,
		Amount:                o.TotalAmount,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError(shared.CodePayment, order.GatewayReason(err, "Refund failed"), err)
	}
	if result == nil {
		return nil, shared.NewDomainError(shared.CodePayment, "Refund failed")
	}

	if err := o.Refund(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order refunded",
		zap.String("order_id", o.ID.String()),
		zap.String("refund_transaction_id", result.RefundTransactionID),
		zap.Stringer("amount", o.Total()))
	telemetry.SetOK(span)
	return &RefundResponse{
		Order:               ToOrderResponse(o),
		RefundTransactionID: result.RefundTransactionID,
		State:               result.State,
	}, nil
}
