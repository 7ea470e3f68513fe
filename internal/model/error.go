package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes shared by the client library and the picker API.
const (
	ErrCodeConfig               = "CONFIG_ERROR"
	ErrCodeNotInitialized       = "NOT_INITIALIZED"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeUnknownFilter        = "UNKNOWN_FILTER"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeMultiValueNotAllowed = "MULTI_VALUE_NOT_ALLOWED"
	ErrCodeUnexpectedResponse   = "UNEXPECTED_RESPONSE"
	ErrCodeUpstream             = "UPSTREAM_ERROR"
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is an expected failure condition identified by its code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so a
// specific error matches its sentinel with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrConfig               = NewDomainError(ErrCodeConfig, "invalid client configuration")
	ErrNotInitialized       = NewDomainError(ErrCodeNotInitialized, "the client needs to be initialized successfully first")
	ErrValidation           = NewDomainError(ErrCodeValidation, "invalid input")
	ErrUnknownFilter        = NewDomainError(ErrCodeUnknownFilter, "unknown filter")
	ErrNotFound             = NewDomainError(ErrCodeNotFound, "not found")
	ErrMultiValueNotAllowed = NewDomainError(ErrCodeMultiValueNotAllowed, "filter does not accept multiple values")
	ErrUnexpectedResponse   = NewDomainError(ErrCodeUnexpectedResponse, "unexpected response from catalog service")
)

// NewConfigError reports a rejected client configuration.
func NewConfigError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeConfig, fmt.Sprintf(format, args...))
}

// NewValidationError reports missing or invalid local input.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports that name is absent from the fetched set of entity.
func NewNotFoundError(entity, name string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("`%s` not found in the supported %s", name, entity))
}

// NewUnknownFilterError reports a search parameter that is not a known filter.
func NewUnknownFilterError(name string) *DomainError {
	return NewDomainError(ErrCodeUnknownFilter, fmt.Sprintf("`%s` is not a supported filter", name))
}

// NewMultiValueNotAllowedError reports a repeated single-value filter.
func NewMultiValueNotAllowedError(name string, count int) *DomainError {
	return NewDomainError(ErrCodeMultiValueNotAllowed,
		fmt.Sprintf("filter `%s` accepts a single value, got %d", name, count))
}

// NewUnexpectedResponseError reports a successful response lacking field.
func NewUnexpectedResponseError(field string) *DomainError {
	return NewDomainError(ErrCodeUnexpectedResponse, fmt.Sprintf("response does not contain `%s`", field))
}
