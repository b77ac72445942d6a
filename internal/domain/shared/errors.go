package shared

import (
	"errors"
	"fmt"
)

// Error codes for the storefront error kinds
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodePersistence          = "PERSISTENCE_ERROR"
	CodePaymentInitiation    = "PAYMENT_INITIATION_ERROR"
	CodePayment              = "PAYMENT_ERROR"
	CodePaymentNotConfirmed  = "PAYMENT_NOT_CONFIRMED"
	CodeShipment             = "SHIPMENT_ERROR"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeNoTrackingInfo       = "NO_TRACKING_INFO"
	CodeAuthRequired         = "AUTH_REQUIRED"
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeGatewayNotConfigured = "GATEWAY_NOT_CONFIGURED"
	CodeStorageNotConfigured = "STORAGE_NOT_CONFIGURED"
	CodeInternal             = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets callers write errors.Is(err, shared.ErrValidation).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewInvalidTransitionError creates an InvalidTransition error for a status change
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to))
}

// Common domain errors
var (
	ErrValidation          = NewDomainError(CodeValidation, "Invalid input provided")
	ErrPersistence         = NewDomainError(CodePersistence, "Failed to persist changes")
	ErrPaymentInitiation   = NewDomainError(CodePaymentInitiation, "Payment initiation failed")
	ErrPayment             = NewDomainError(CodePayment, "Payment gateway error")
	ErrPaymentNotConfirmed = NewDomainError(CodePaymentNotConfirmed, "Payment has not been confirmed")
	ErrShipment            = NewDomainError(CodeShipment, "Shipment gateway error")
	ErrInvalidTransition   = NewDomainError(CodeInvalidTransition, "Status transition not allowed")
	ErrNoTrackingInfo      = NewDomainError(CodeNoTrackingInfo, "No tracking information for this order")
	ErrAuthRequired        = NewDomainError(CodeAuthRequired, "Please sign in to continue")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidCredentials  = NewDomainError(CodeInvalidCredentials, "Invalid email or password")
)

// EnsureDomainError passes domain errors through unchanged and wraps any
// other error in a DomainError with the given code and message.
func EnsureDomainError(err error, code, message string) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return WrapDomainError(code, message, err)
}
