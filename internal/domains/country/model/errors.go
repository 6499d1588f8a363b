package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "COUNTRY_NOT_FOUND"
	ErrCodeStore               = "STORE_ERROR"
)

// CountryError định nghĩa base error cho country domain
type CountryError struct {
	Code    string      // Error code duy nhất (VD: "COUNTRY_NOT_FOUND")
	Message string      // Human-readable message
	Details interface{} // Chi tiết trả về client (validation fields, upstream cause)
	Err     error       // Underlying error
}

// Error implements error interface
func (e *CountryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *CountryError) Unwrap() error {
	return e.Err
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

// NewUpstreamUnavailable: một trong hai external API lỗi (network, timeout, status)
func NewUpstreamUnavailable(source string, err error) *CountryError {
	return &CountryError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: "External data source unavailable",
		Details: fmt.Sprintf("Could not fetch data from %s", source),
		Err:     err,
	}
}

// NewValidationError: fields map tên tham số → lý do
func NewValidationError(fields map[string]string) *CountryError {
	return &CountryError{
		Code:    ErrCodeValidation,
		Message: "Invalid query parameters",
		Details: fields,
	}
}

// NewCountryNotFound tạo error "country not found"
func NewCountryNotFound(name string) *CountryError {
	return &CountryError{
		Code:    ErrCodeNotFound,
		Message: "Country not found",
		Details: name,
	}
}

// NewStoreError bọc lỗi từ repository
func NewStoreError(op string, err error) *CountryError {
	return &CountryError{
		Code:    ErrCodeStore,
		Message: "Internal server error",
		Details: op,
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func hasCode(err error, code string) bool {
	var cErr *CountryError
	return errors.As(err, &cErr) && cErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsUpstreamUnavailable(err error) bool {
	return hasCode(err, ErrCodeUpstreamUnavailable)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// MapErrorToHTTP chuyển error sang (status, message, details)
func MapErrorToHTTP(err error) (int, string, interface{}) {
	if err == nil {
		return http.StatusOK, "", nil
	}

	var cErr *CountryError
	if !errors.As(err, &cErr) {
		return http.StatusInternalServerError, "Internal server error", err.Error()
	}

	switch cErr.Code {
	case ErrCodeUpstreamUnavailable:
		details := cErr.Details
		if cErr.Err != nil {
			details = fmt.Sprintf("%v: %v", cErr.Details, cErr.Err)
		}
		return http.StatusServiceUnavailable, cErr.Message, details
	case ErrCodeValidation:
		return http.StatusBadRequest, cErr.Message, cErr.Details
	case ErrCodeNotFound:
		return http.StatusNotFound, cErr.Message, nil
	default:
		return http.StatusInternalServerError, cErr.Message, cErr.Details
	}
}
