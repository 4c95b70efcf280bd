package cart

import "errors"

var (
	ErrInvalidLine = errors.New("invalid cart line")
	ErrEmptyCart   = errors.New("cart is empty")
)
