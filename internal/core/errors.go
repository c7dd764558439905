package core

import (
	"errors"
	"fmt"
)

// Error kinds returned by every kernel operation. Callers classify failures
// with errors.Is; lower layers wrap these with fmt.Errorf("...: %w").
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConsistency       = errors.New("consistency violation")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence failure")
)

// Validationf builds a malformed-input error.
func Validationf(format string, args ...any) error {
	args = append(args, ErrValidation)
	return fmt.Errorf(format+": %w", args...)
}

// NotFoundf builds an unresolved-reference error.
func NotFoundf(format string, args ...any) error {
	args = append(args, ErrNotFound)
	return fmt.Errorf(format+": %w", args...)
}

// Consistencyf builds a domain-rule violation error, such as a kind mismatch
// or a duplicate budget period.
func Consistencyf(format string, args ...any) error {
	args = append(args, ErrConsistency)
	return fmt.Errorf(format+": %w", args...)
}

// InsufficientFundsf builds a failed funds check error.
func InsufficientFundsf(format string, args ...any) error {
	args = append(args, ErrInsufficientFunds)
	return fmt.Errorf(format+": %w", args...)
}

// Persistencef wraps a storage or connectivity failure.
func Persistencef(format string, args ...any) error {
	args = append(args, ErrPersistence)
	return fmt.Errorf(format+": %w", args...)
}
