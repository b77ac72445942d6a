package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Error codes. Domain error kinds reuse their DomainError code so clients
// see one vocabulary.
const (
	ErrCodeValidation           = shared.CodeValidation
	ErrCodePersistence          = shared.CodePersistence
	ErrCodePaymentInitiation    = shared.CodePaymentInitiation
	ErrCodePayment              = shared.CodePayment
	ErrCodePaymentNotConfirmed  = shared.CodePaymentNotConfirmed
	ErrCodeShipment             = shared.CodeShipment
	ErrCodeInvalidTransition    = shared.CodeInvalidTransition
	ErrCodeNoTrackingInfo       = shared.CodeNoTrackingInfo
	ErrCodeAuthRequired         = shared.CodeAuthRequired
	ErrCodeNotFound             = shared.CodeNotFound
	ErrCodeAlreadyExists        = shared.CodeAlreadyExists
	ErrCodeForbidden            = shared.CodeForbidden
	ErrCodeInvalidCredentials   = shared.CodeInvalidCredentials
	ErrCodeGatewayNotConfigured = shared.CodeGatewayNotConfigured
	ErrCodeStorageNotConfigured = shared.CodeStorageNotConfigured
	ErrCodeInternal             = shared.CodeInternal
)

// Transport-level codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodePersistence:          http.StatusInternalServerError,
	ErrCodePaymentInitiation:    http.StatusBadGateway,
	ErrCodePayment:              http.StatusBadGateway,
	ErrCodePaymentNotConfirmed:  http.StatusConflict,
	ErrCodeShipment:             http.StatusBadGateway,
	ErrCodeInvalidTransition:    http.StatusUnprocessableEntity,
	ErrCodeNoTrackingInfo:       http.StatusNotFound,
	ErrCodeAuthRequired:         http.StatusUnauthorized,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusConflict,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeInvalidCredentials:   http.StatusUnauthorized,
	ErrCodeGatewayNotConfigured: http.StatusServiceUnavailable,
	ErrCodeStorageNotConfigured: http.StatusServiceUnavailable,
	ErrCodeInternal:             http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidToken:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
