package engine

import "errors"

// Structural input violations. These abort a single calculation call;
// business-level non-applicability is surfaced on the outcome instead.
var (
	// ErrNegativeSubtotal is returned when the caller supplies a subtotal below zero.
	ErrNegativeSubtotal = errors.New("order subtotal is negative")
	// ErrInvalidOrderItem is returned when an order item is missing its menu item
	// identity or carries a non-positive quantity or negative price.
	ErrInvalidOrderItem = errors.New("invalid order item")
	// ErrNilDeal is returned when the caller supplies no deal at all.
	ErrNilDeal = errors.New("deal is nil")
)
