package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of its HTTP mapping.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation"
	KindInsufficientStock   Kind = "insufficient_stock"
	KindStockUnavailable    Kind = "stock_unavailable"
	KindConcurrencyConflict Kind = "concurrency_conflict"
	KindStore               Kind = "store_failure"
)

// Error is a structured application error: a kind, an HTTP status code, a
// message with context, and an optional wrapped cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with an explicit kind and status code.
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// NotFound builds a not-found error. Never retried.
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// Validation builds a malformed-input error. Never retried.
func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

// InsufficientStock builds the business-rule error for a stock mutation that
// would drive quantity below zero.
func InsufficientStock(message string) *Error {
	return New(KindInsufficientStock, http.StatusBadRequest, message, nil)
}

// StockUnavailable builds the business-rule error for an order line whose
// requested quantity exceeds available stock.
func StockUnavailable(message string) *Error {
	return New(KindStockUnavailable, http.StatusConflict, message, nil)
}

// ConcurrencyConflict builds the error for a detected lost-update. Callers
// retry the whole unit a bounded number of times before surfacing it.
func ConcurrencyConflict(message string) *Error {
	return New(KindConcurrencyConflict, http.StatusConflict, message, nil)
}

// Store wraps an underlying persistence failure. Not retried by the core.
func Store(err error) *Error {
	return New(KindStore, http.StatusServiceUnavailable, "persistence failure", err)
}

// KindOf extracts the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// From normalizes any error into an *Error, wrapping unknown errors as
// store failures so no error path is ever silent or unstructured.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Store(err)
}
