package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with cause",
			err:  Wrap(ErrKindConnectionFailed, "cannot reach mysql", errors.New("dial tcp: refused")),
			want: "[connection_failed] cannot reach mysql: dial tcp: refused",
		},
		{
			name: "without cause",
			err:  New(ErrKindInvalidInput, "database name is required"),
			want: "[invalid_input] database name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		pred func(error) bool
	}{
		{ErrKindConnectionFailed, IsConnectionFailed},
		{ErrKindCatalogRead, IsCatalogRead},
		{ErrKindTimeout, IsTimeout},
		{ErrKindPersistence, IsPersistence},
		{ErrKindTransmission, IsTransmission},
		{ErrKindAuthFailed, IsAuthFailed},
		{ErrKindInvalidInput, IsInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := New(tt.kind, "boom")
			assert.True(t, tt.pred(err))
			assert.False(t, tt.pred(New(ErrKindUnknown, "other")))
			assert.False(t, tt.pred(errors.New("plain")))
		})
	}
}

func TestPredicatesTraverseWrapping(t *testing.T) {
	inner := Wrap(ErrKindCatalogRead, "show create table failed", errors.New("table dropped"))
	outer := fmt.Errorf("table orders: %w", inner)

	assert.True(t, IsCatalogRead(outer))
	assert.False(t, IsConnectionFailed(outer))
}

func TestAuthFailedIsNotTransmission(t *testing.T) {
	err := New(ErrKindAuthFailed, "smtp rejected credentials")
	assert.True(t, IsAuthFailed(err))
	assert.False(t, IsTransmission(err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrKindPersistence, "write failed", cause)
	assert.True(t, errors.Is(err, cause))
}
