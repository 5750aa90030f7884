package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate key value")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountInactive    = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOwnerRequired      = errors.New("user id or guest id is required")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
