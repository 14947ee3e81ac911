package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Combine with NewDomainError to add operation context.
var (
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrNotFound         = fmt.Errorf("not found")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrProviderError    = fmt.Errorf("provider error")
	ErrAgentUnavailable = fmt.Errorf("agent backend unavailable")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Topic.Handle")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsInvalidInput reports whether err indicates a programming/contract error
// that must surface as a hard failure rather than an Error response.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
