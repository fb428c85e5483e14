// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, store errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// ── Domain error taxonomy ─────────────────────────────────────────────────────
// Services return these; the handler layer maps them to HTTP status codes.
// Repositories surface StoreError unchanged; orchestration services translate
// missing entities to ErrNotFound and business-rule violations to
// InsufficientStockError / ErrInvalid.

// ErrNotFound marks an entity id that could not be resolved.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks a business-rule validation failure (empty item list,
// non-positive amount or quantity, bad state transition). Wrap it with
// context: fmt.Errorf("quantity must be positive: %w", ErrInvalid).
var ErrInvalid = errors.New("invalid request")

// ErrVersionConflict is returned by versioned writes when the stored document
// changed between read and write. Services retry a bounded number of times
// before giving up.
var ErrVersionConflict = errors.New("version conflict")

// InsufficientStockError names the first product whose available stock is
// below the requested quantity. No stock has been mutated when it is returned.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// StoreError wraps a key-value store I/O failure. Always retryable by the caller.
type StoreError struct {
	Op  string // "get" | "set" | "delete" | "scan"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err with operation context for the error chain.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}
