package tmdb

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common errors
var (
	// ErrMissingAPIKey indicates the shared parameters carry no credential
	ErrMissingAPIKey = errors.New("tmdb API key is not set")
	// ErrMissingParams indicates the client was built without a ParamsSource
	ErrMissingParams = errors.New("tmdb query params source is required")
)

// APIError represents a non-2xx answer from TMDB
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether TMDB rejected the API key
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsRateLimited reports whether TMDB throttled the request
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TimeoutError is returned when a request does not complete in time
type TimeoutError struct {
	Path    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("tmdb request %s timed out after %s", e.Path, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ParseError describes a response body that is not a valid envelope
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse tmdb response for %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
