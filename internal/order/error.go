package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("please provide order items")
	ErrInvalidLine        = errors.New("each item must have fishName, qty, and preparation")
	ErrInvalidStatus      = errors.New("please provide a valid status")
	ErrProductUnavailable = errors.New("product not found or not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrMissingPartner     = errors.New("please provide partnerId")
	ErrInvalidPartner     = errors.New("invalid partner")

	// ErrStockAdjustment means the order was stored but decrementing stock
	// failed part way; nothing is rolled back.
	ErrStockAdjustment = errors.New("order created but stock adjustment failed")
)
