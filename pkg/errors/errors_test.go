package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"configuration", Configuration("bad chat", nil), ErrorTypeConfiguration},
		{"wrapped session", fmt.Errorf("fetch: %w", Session("revoked", errors.New("401"))), ErrorTypeSession},
		{"context canceled", fmt.Errorf("download: %w", context.Canceled), ErrorTypeCancelled},
		{"plain", errors.New("boom"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(Session("revoked", nil)))
	assert.True(t, IsFatal(Configuration("missing api id", nil)))
	assert.False(t, IsFatal(Transient("network", nil)))
	assert.False(t, IsFatal(Ledger("unwritable", nil)))
	assert.False(t, IsFatal(context.Canceled))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Transient("write msg_3.jpg", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transient error: write msg_3.jpg: disk full", err.Error())
	assert.Equal(t, "session error: gone", Session("gone", nil).Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeTransient))
	assert.True(t, IsRetryable(ErrorTypeUnknown))
	assert.False(t, IsRetryable(ErrorTypeSession))
	assert.False(t, IsRetryable(ErrorTypeCancelled))
	assert.False(t, IsRetryable(ErrorTypeConfiguration))
}
