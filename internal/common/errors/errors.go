// Package errors provides standardized error handling for the pump
// selection service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInsufficientRequirement ErrorCode = "INSUFFICIENT_REQUIREMENT_DATA"

	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	ErrCodePumpNotFound      ErrorCode = "PUMP_NOT_FOUND"

	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodePresetNotFound ErrorCode = "PRESET_NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// SelectionError is a structured application error.
type SelectionError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("SelectionError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the response status the service surface
// should use.
func (e *SelectionError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInsufficientRequirement:
		return http.StatusBadRequest
	case ErrCodePumpNotFound, ErrCodePresetNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsSelectionError normalizes any error into a SelectionError.
func AsSelectionError(err error) *SelectionError {
	if se, ok := err.(*SelectionError); ok {
		return se
	}
	return &SelectionError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientRequirementError flags a requirement missing its mandatory
// duty point data. Non-retryable: the caller must fix the request.
func NewInsufficientRequirementError(details string) *SelectionError {
	return &SelectionError{
		Code:      ErrCodeInsufficientRequirement,
		Message:   "Insufficient requirement data",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a retryable catalog refresh error.
func NewCatalogLoadFailedError(err error) *SelectionError {
	return &SelectionError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Failed to load pump catalog",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError flags catalog source data that failed validation.
func NewCatalogInvalidError(details string) *SelectionError {
	return &SelectionError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Catalog data failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPumpNotFoundError flags a lookup for an unknown pump code.
func NewPumpNotFoundError(code string) *SelectionError {
	return &SelectionError{
		Code:      ErrCodePumpNotFound,
		Message:   "Pump not found in catalog",
		Details:   fmt.Sprintf("pumpCode: %s", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError flags a scoring configuration that failed validation.
func NewConfigInvalidError(details string) *SelectionError {
	return &SelectionError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid selection configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPresetNotFoundError flags an unknown scoring preset name.
func NewPresetNotFoundError(name string) *SelectionError {
	return &SelectionError{
		Code:      ErrCodePresetNotFound,
		Message:   "Scoring preset not found",
		Details:   fmt.Sprintf("preset: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
