package clients

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cdeia/observaciones/internal/models"
)

// ErrorClass groups failures by who can act on them.
type ErrorClass string

const (
	ClassInput         ErrorClass = "input"         // caller submitted empty fields
	ClassConfiguration ErrorClass = "configuration" // operator must fix the credential
	ClassTransient     ErrorClass = "transient"     // resubmitting may succeed
	ClassService       ErrorClass = "service"       // only the service owner can fix it
	ClassUnexpected    ErrorClass = "unexpected"
)

type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// HTTPStatusError is a non-2xx reply. Body holds the decoded JSON error payload
// when it decodes, otherwise the raw text.
type HTTPStatusError struct {
	Code int
	Body any
	Raw  string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d (%s)", e.Code, http.StatusText(e.Code))
}

type ConnectionError struct {
	Reason string
}

func (e *ConnectionError) Error() string {
	return "connection error: " + e.Reason
}

type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response within %s", e.Timeout)
}

// MalformedResponseError carries the decoded body that matched none of the
// accepted shapes, or matched one with too few proposals.
type MalformedResponseError struct {
	Reason  string
	RawBody any
}

func (e *MalformedResponseError) Error() string {
	return "unexpected response structure: " + e.Reason
}

type UnexpectedError struct {
	Detail string
}

func (e *UnexpectedError) Error() string {
	return "unexpected error: " + e.Detail
}

// RequestError wraps every failure that happened after the request was issued
// so the elapsed time stays available for diagnostics.
type RequestError struct {
	URL     string
	Elapsed time.Duration
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("POST %s after %s: %v", e.URL, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ElapsedOf returns the elapsed time recorded on err, if any.
func ElapsedOf(err error) (time.Duration, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Elapsed, true
	}
	return 0, false
}

// Kind is a stable short name for the failure, used on the wire by the HTTP
// surface and the worker.
func Kind(err error) string {
	var (
		missing   *models.MissingFieldError
		cfgErr    *ConfigurationError
		statusErr *HTTPStatusError
		connErr   *ConnectionError
		toErr     *TimeoutError
		malformed *MalformedResponseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		return "validation_error"
	case errors.As(err, &cfgErr):
		return "configuration_error"
	case errors.As(err, &statusErr):
		return "http_status_error"
	case errors.As(err, &connErr):
		return "connection_error"
	case errors.As(err, &toErr):
		return "timeout_error"
	case errors.As(err, &malformed):
		return "malformed_response_error"
	default:
		return "unexpected_error"
	}
}

// Classify tells configuration problems apart from transient network problems
// and from problems only the service owner can fix.
func Classify(err error) ErrorClass {
	var statusErr *HTTPStatusError
	switch Kind(err) {
	case "":
		return ""
	case "validation_error":
		return ClassInput
	case "configuration_error":
		return ClassConfiguration
	case "connection_error", "timeout_error":
		return ClassTransient
	case "http_status_error":
		if errors.As(err, &statusErr) && (statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests) {
			return ClassTransient
		}
		return ClassService
	case "malformed_response_error":
		return ClassService
	default:
		return ClassUnexpected
	}
}
