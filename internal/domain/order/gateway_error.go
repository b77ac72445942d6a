package order

import (
	"errors"
	"fmt"
)

// Gateway failure kinds. A GatewayError always wraps one of these.
var (
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrGatewayRejected    = errors.New("gateway rejected request")
	ErrInvalidChecksum    = errors.New("invalid checksum")
)

// GatewayError is returned by payment and shipment gateway adapters.
// Reason is safe to show to a customer.
type GatewayError struct {
	Gateway string
	Op      string
	Code    string
	Reason  string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s (%s)", e.Gateway, e.Op, e.Reason, e.Code)
	}
	return fmt.Sprintf("%s %s: %s", e.Gateway, e.Op, e.Reason)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// GatewayReason extracts the customer-facing reason from err, or fallback.
func GatewayReason(err error, fallback string) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Reason != "" {
		return gwErr.Reason
	}
	return fallback
}
