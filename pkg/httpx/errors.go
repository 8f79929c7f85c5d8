package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError standardizes API error responses and logging context.
type HTTPError struct {
	StatusCode int            `json:"-"`
	Message    string         `json:"message"`
	Code       string         `json:"code"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Helpers
func BadRequest(msg string, err error) *HTTPError {
	return &HTTPError{StatusCode: http.StatusBadRequest, Message: msg, Code: "bad_request", Err: err}
}
func NotFound(msg string, err error) *HTTPError {
	return &HTTPError{StatusCode: http.StatusNotFound, Message: msg, Code: "not_found", Err: err}
}
func Internal(msg string, err error) *HTTPError {
	return &HTTPError{StatusCode: http.StatusInternalServerError, Message: msg, Code: "internal", Err: err}
}
func Unavailable(msg string, err error) *HTTPError {
	return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: msg, Code: "unavailable", Err: err}
}

// Is compares target code regardless of wrapped error.
func Is(err error, code string) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}
