// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced to callers. Typed errors below match these through errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrStorage             = errors.New("storage failure")
	ErrEmptyInvoice        = errors.New("invoice has no lines")
	ErrNotFound            = errors.New("record not found")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConstraintError reports a collision on a unique key.
type ConstraintError struct {
	Field string
	Value string
}

func (e *ConstraintError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("duplicate %s", e.Field)
	}
	return fmt.Sprintf("duplicate %s: %s", e.Field, e.Value)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// Shortfall is one product that cannot cover the requested quantity.
type Shortfall struct {
	ProductID  int64
	PartNumber string
	Requested  int
	Available  int
}

// InsufficientStockError names every part that failed a stock check.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.PartNumber, s.Requested, s.Available))
	}
	return "insufficient stock for " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StorageError wraps an engine failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
