package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewValidationError("quantity must be between %d and %d", 1, 99)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "quantity must be between 1 and 99", err.Error())

	wrapped := fmt.Errorf("add to cart: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))
}

func TestWrapDomainError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDomainError(CodePersistence, "Failed to save order", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Failed to save order", err.Error())
}

func TestNewInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("delivered", "pending")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, "cannot transition from delivered to pending", err.Message)
}

func TestEnsureDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantCode string
	}{
		{name: "nil stays nil", err: nil, wantNil: true},
		{name: "domain error passes through", err: ErrNotFound, wantCode: CodeNotFound},
		{name: "wrapped domain error passes through", err: fmt.Errorf("load: %w", ErrForbidden), wantCode: CodeForbidden},
		{name: "plain error is wrapped", err: errors.New("timeout"), wantCode: CodePersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureDomainError(tt.err, CodePersistence, "Failed to load")
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			var domainErr *DomainError
			if assert.True(t, errors.As(got, &domainErr)) {
				assert.Equal(t, tt.wantCode, domainErr.Code)
			}
			assert.True(t, errors.Is(got, tt.err))
		})
	}
}
