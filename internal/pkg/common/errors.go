package common

import (
	"errors"
	"net/http"
)

// Error codes form a closed set so callers can dispatch on the variant
// instead of inspecting message text.
const (
	// Client-side failures (4xx)
	ErrCodeInvalidInput  = "INVALID_INPUT"  // 400, rejected before any network call
	ErrCodeNotConfigured = "NOT_CONFIGURED" // 503, credential missing or malformed
	ErrCodeAuthFailed    = "AUTH_FAILED"    // 401 from the provider
	ErrCodeRateLimited   = "RATE_LIMITED"   // 429 from the provider, retryable
	ErrCodeNotFound      = "NOT_FOUND"      // 404

	// Provider and transport failures
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE" // 5xx from the provider, retryable
	ErrCodeProviderError       = "PROVIDER_ERROR"       // any other non-2xx
	ErrCodeNetworkError        = "NETWORK_ERROR"        // transport failure before a status is known
	ErrCodeEmptyResponse       = "EMPTY_RESPONSE"       // 2xx but no usable content

	// Response shape failures
	ErrCodeFormatError         = "FORMAT_ERROR"         // no parseable JSON object in the reply
	ErrCodeMissingTitle        = "MISSING_TITLE"        // parsed object lacks a title
	ErrCodeMissingIngredients  = "MISSING_INGREDIENTS"  // parsed object lacks ingredients
	ErrCodeMissingInstructions = "MISSING_INSTRUCTIONS" // parsed object lacks instructions

	ErrCodeInternalError = "INTERNAL_ERROR"
)

// CustomError is the error type carried through the generation
// pipeline. Code identifies the variant, Status the HTTP status the API
// surface should answer with, Err the wrapped cause.
type CustomError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a tagged error.
func NewError(code, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Kind extracts the error code from err, or INTERNAL_ERROR when err is
// not a CustomError.
func Kind(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternalError
}

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Status != 0 {
		return ce.Status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the caller may retry after a delay.
func IsRetryable(err error) bool {
	switch Kind(err) {
	case ErrCodeRateLimited, ErrCodeProviderUnavailable:
		return true
	}
	return false
}
