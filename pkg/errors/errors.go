package errors

import (
	"fmt"

	"github.com/akzshop/storeapi/internal/domain"
)

// ErrNotFound is returned when a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInvalidStateTransition is returned on an illegal order status change
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrValidation is returned when a checkout form field fails validation.
// Field names the first invalid field so the client can focus it.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ErrBusinessRule is a non-fatal rule violation surfaced to the user as a message
type ErrBusinessRule struct {
	Message string
}

func (e *ErrBusinessRule) Error() string {
	return e.Message
}

// ErrInvalidPromoCode is returned when a non-empty promo code is unknown
type ErrInvalidPromoCode struct {
	Code string
}

func (e *ErrInvalidPromoCode) Error() string {
	return fmt.Sprintf("invalid promo code: %s", e.Code)
}

// ErrEmptyCart is returned when checkout is attempted on an empty cart
type ErrEmptyCart struct{}

func (e *ErrEmptyCart) Error() string {
	return "cart is empty"
}
