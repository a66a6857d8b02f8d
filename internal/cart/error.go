package cart

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity        = errors.New("invalid cart quantity")
	ErrInvalidRemoveCartInput = errors.New("invalid remove cart input")

	// -- Resource State --
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is already empty")

	// -- Database & Operation Failures --
	ErrFailedGetCartRows = errors.New("failed to get cart rows")
)
