package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidStatus     = errors.New("invalid user status")
	ErrCannotDeleteAdmin = errors.New("Cannot delete admin users")
	ErrInvalidInput      = errors.New("invalid user input")
)
