// Package apperr defines the closed error taxonomy shared by services
// and mapped to HTTP statuses at the API layer. Cache failures never
// surface through these; the cache degrades to a miss instead.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeValidation        Code = "validation"
	CodeInsufficientStock Code = "insufficient_stock"
	CodeInvalidState      Code = "invalid_state"
	CodeForbidden         Code = "forbidden"
	CodeConflict          Code = "conflict"
	CodeInternal          Code = "internal"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// StockError reports a failed stock check. It names the product and
// both sides of the shortfall so callers never have to guess; partial
// fulfilment or silent rounding down is not allowed.
type StockError struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
	InCart      int    `json:"in_cart,omitempty"`
}

func (e *StockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("insufficient stock for %q: available %d, in cart %d, requested %d",
			e.ProductName, e.Available, e.InCart, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// CodeOf extracts the taxonomy code from any error chain. Unknown
// errors map to CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return CodeInsufficientStock
	}
	return CodeInternal
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
