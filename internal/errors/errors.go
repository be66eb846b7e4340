// Package errors provides the error types produced while talking to the
// Gemini generative-language API.
//
// Every failure returned by a generator matches ErrGenerationFailed. The chat
// controller only ever distinguishes that one kind; the concrete types below
// exist so the diagnostic log can keep the underlying detail.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrGenerationFailed = errors.New("generation failed")
	ErrNoAPIKey         = errors.New("no API key configured")
	ErrEmptyPrompt      = errors.New("prompt cannot be empty")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrClientClosed     = errors.New("client is closed")
)

// AuthError represents a rejected or missing credential
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: check GEMINI_API_KEY"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrGenerationFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(statusCode int, message string) *AuthError {
	return &AuthError{StatusCode: statusCode, Message: message}
}

// APIError represents a non-200 answer from the API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Is(target error) bool {
	if target == ErrGenerationFailed {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError keeping the (truncated) response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	if target == ErrGenerationFailed {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError bound to an endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// BlockedError represents a prompt or candidate withheld by safety filters
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "content blocked"
	}
	return fmt.Sprintf("content blocked: %s", e.Reason)
}

func (e *BlockedError) Is(target error) bool {
	if target == ErrGenerationFailed {
		return true
	}
	_, ok := target.(*BlockedError)
	return ok
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(reason string) *BlockedError {
	return &BlockedError{Reason: reason}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (at %s)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse || target == ErrGenerationFailed {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// FromStatus maps an HTTP failure to the matching error type.
// 401 and 403 become AuthError, everything else APIError.
func FromStatus(statusCode int, endpoint, message, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewAuthError(statusCode, message)
	default:
		return NewAPIErrorWithBody(statusCode, endpoint, message, body)
	}
}

// IsAuthError reports whether err is a credential failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsBlockedError reports whether err is a safety block
func IsBlockedError(err error) bool {
	var blocked *BlockedError
	return errors.As(err, &blocked)
}

// IsRateLimitError reports whether err is an HTTP 429
func IsRateLimitError(err error) bool {
	return GetHTTPStatus(err) == http.StatusTooManyRequests
}

// GetHTTPStatus extracts the HTTP status code, or 0 when none is known
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint an error is bound to
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the response body kept by an APIError
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
