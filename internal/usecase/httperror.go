package usecase

import (
	"errors"
	"fmt"
)

// エラーコード。UI側はcodeで分岐し、messageは表示用
const (
	CodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	CodeEmptyCart             = "EMPTY_CART"
	CodeInvalidAddress        = "INVALID_ADDRESS"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodeInsufficientPoints    = "INSUFFICIENT_POINTS"
	CodeRedemptionExceedsCap  = "REDEMPTION_EXCEEDS_LIMIT"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeAlreadyPaid           = "ALREADY_PAID"
	CodeOrderCreationFailed   = "ORDER_CREATION_FAILED"
	CodeSignatureInvalid      = "SIGNATURE_INVALID"
	CodeValidation            = "VALIDATION"
	CodeNotFound              = "NOT_FOUND"
	CodeForbidden             = "FORBIDDEN"
	CodeInternal              = "INTERNAL"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
