package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound       = "ORD001"
	ErrCodeLineNotFound        = "ORD002"
	ErrCodeNonPositiveQuantity = "ORD003"
	ErrCodeInvalidDiscount     = "ORD004"
	ErrCodeProductNotFound     = "ORD005"
	ErrCodeStorageFailure      = "ORD006"
	ErrCodeInvalidOrder        = "ORD007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrLineNotFound          = errors.New("order line not found")
	ErrNonPositiveQuantity   = errors.New("quantity must be positive")
	ErrInvalidManualDiscount = errors.New("manual discount value out of range for its mode")
	ErrProductNotFound       = errors.New("product not found")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{Code: code, Message: message, Err: err}
}
