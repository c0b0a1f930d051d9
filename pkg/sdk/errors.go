package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoTokenProvider is returned by authenticated calls made without a usable access token.
	ErrNoTokenProvider = errors.New("no access token available")

	// ErrProfileResolution is matched by every *ProfileResolutionError.
	ErrProfileResolution = errors.New("profile resolution failed")
)

// APIError carries a non-2xx backend response. Body is the raw response text.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ProfileResolutionError is returned when the "who am I" endpoint answers with a non-2xx status.
type ProfileResolutionError struct {
	StatusCode int
	Body       string
}

func (e *ProfileResolutionError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("profile resolution failed (%d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("profile resolution failed (%d)", e.StatusCode)
}

func (e *ProfileResolutionError) Is(target error) bool {
	return target == ErrProfileResolution
}
