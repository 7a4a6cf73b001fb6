package domain

import "errors"

// Sentinel errors for the order domain. Use errors.Is() to check these.
// Callers wrap them with the offending id or name before returning.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrShopNotFound    = errors.New("shop not found")

	// ErrForbidden indicates a non-admin caller attempted an admin-only operation.
	ErrForbidden = errors.New("forbidden")

	// ErrOrderWindowClosed indicates a shop tried to order after the daily cutoff.
	ErrOrderWindowClosed = errors.New("order window closed")

	// ErrValidationFailed covers empty carts and quantities or targets out of range.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidTransition indicates the status change is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrencyConflict indicates the store aborted the transaction under
	// contention and retries were exhausted.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)
