package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrClientNotConfigured = errors.New("exchange client is not configured")

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(field string, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (validationError *ValidationError) Add(field string, message string) {
	validationError.Violations = append(validationError.Violations, FieldViolation{Field: field, Message: message})
}

func (validationError *ValidationError) HasViolations() bool {
	return len(validationError.Violations) > 0
}

func (validationError *ValidationError) Error() string {
	descriptions := make([]string, 0, len(validationError.Violations))
	for _, violation := range validationError.Violations {
		descriptions = append(descriptions, violation.Field+": "+violation.Message)
	}
	return "validation failed: " + strings.Join(descriptions, "; ")
}

type UnsupportedOrderTypeError struct {
	OrderType string
}

func (unsupportedError *UnsupportedOrderTypeError) Error() string {
	return "unsupported order type: " + unsupportedError.OrderType
}

type ExchangeError struct {
	StatusCode int
	Message    string
}

func (exchangeError *ExchangeError) Error() string {
	if exchangeError.StatusCode > 0 {
		return fmt.Sprintf("exchange error (status %d): %s", exchangeError.StatusCode, exchangeError.Message)
	}
	return "exchange error: " + exchangeError.Message
}
