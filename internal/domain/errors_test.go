package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorMessage(t *testing.T) {
	err := NewDomainError("Topic.Handle", ErrInvalidInput, "unknown topic action: pause")
	assert.Equal(t, "Topic.Handle: unknown topic action: pause: invalid input", err.Error())

	bare := NewDomainError("Topic.Handle", ErrTimeout, "")
	assert.Equal(t, "Topic.Handle: operation timed out", bare.Error())
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("gateway.Execute", ErrAgentUnavailable, "circuit open")
	assert.True(t, errors.Is(err, ErrAgentUnavailable))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWrapOp(t *testing.T) {
	require.NoError(t, WrapOp("op", nil))

	wrapped := WrapOp("dialog.SendMessage", ErrProviderError)
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrProviderError))
	assert.Contains(t, wrapped.Error(), "dialog.SendMessage")
}

func TestIsInvalidInput(t *testing.T) {
	assert.True(t, IsInvalidInput(NewDomainError("x", ErrInvalidInput, "")))
	assert.True(t, IsInvalidInput(WrapOp("y", ErrInvalidInput)))
	assert.False(t, IsInvalidInput(ErrProviderError))
	assert.False(t, IsInvalidInput(nil))
}
