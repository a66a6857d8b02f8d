package order

import (
	"errors"
	"fmt"

	"bazaar-be/internal/fault"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order must contain at least one item")

	// ErrOrderNotPending carries the transition sentinel so cancellation
	// of a shipped order surfaces as a conflict, not a server error.
	ErrOrderNotPending = fmt.Errorf("order can no longer be canceled: %w", fault.ErrInvalidTransition)

	// ErrDuplicateOrderNumber signals an order_number collision; the caller
	// regenerates the number and retries.
	ErrDuplicateOrderNumber = fmt.Errorf("order number already taken: %w", fault.ErrValidation)
)
