package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error with a stable code
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Common error codes shared across aggregates. Module-specific codes
// live next to the aggregates that raise them.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvariantViolation  = "INVARIANT_VIOLATION"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewNotFoundError creates a NOT_FOUND error for the given resource
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainErrorf(ErrCodeNotFound, "%s not found: %v", resource, id)
}

// NewConcurrencyConflictError signals an optimistic lock failure
func NewConcurrencyConflictError(resource string, id any) *DomainError {
	return NewDomainErrorf(ErrCodeConcurrencyConflict, "%s was modified concurrently: %v", resource, id)
}

// AsDomainError unwraps err into a DomainError if possible
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDomainError reports whether err is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
