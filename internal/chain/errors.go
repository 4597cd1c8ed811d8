package chain

import (
	"errors"
	"fmt"
)

// ChainError represents an error detected while solving.
//
// Input errors (empty input, dimension mismatch, no chain) are caller
// problems and are reported as-is. Invariant errors indicate broken oracle
// bookkeeping and abort the computation.
type ChainError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Event is the index of the event involved, or -1.
	Event int

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes chain errors.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates fewer than two events were supplied.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeDimensionMismatch indicates events disagree on dimensionality.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeNoChain indicates the mandatory end is not reachable from the
	// mandatory start.
	ErrCodeNoChain ErrorCode = "NO_CHAIN"

	// ErrCodeInvariant indicates inconsistent oracle state.
	ErrCodeInvariant ErrorCode = "INVARIANT_VIOLATION"
)

// Error implements the error interface.
func (e *ChainError) Error() string {
	if e.Event >= 0 {
		return fmt.Sprintf("%s: %s (event=%d)", e.Code, e.Message, e.Event)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInputError returns true if err is caused by unusable input rather than
// a solver defect. Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce.Code != ErrCodeInvariant
	}
	return false
}

// IsInvariantError returns true if err reports broken oracle bookkeeping.
func IsInvariantError(err error) bool {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvariant
	}
	return false
}

// IsNoChain returns true if err reports that no valid chain exists.
func IsNoChain(err error) bool {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNoChain
	}
	return false
}

// NewEmptyInputError creates a ChainError for inputs with fewer than two
// events.
func NewEmptyInputError(count int) *ChainError {
	return &ChainError{
		Code:    ErrCodeEmptyInput,
		Message: fmt.Sprintf("need at least 2 events, got %d", count),
		Event:   -1,
		Details: map[string]string{"count": fmt.Sprintf("%d", count)},
	}
}

// NewNoChainError creates a ChainError for inputs whose endpoints cannot
// both be observed.
func NewNoChainError(reason string) *ChainError {
	return &ChainError{
		Code:    ErrCodeNoChain,
		Message: reason,
		Event:   -1,
	}
}

func newInvariantError(event int, format string, args ...any) *ChainError {
	return &ChainError{
		Code:    ErrCodeInvariant,
		Message: fmt.Sprintf(format, args...),
		Event:   event,
	}
}
