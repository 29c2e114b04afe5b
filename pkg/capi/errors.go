package capi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a single entry of a v3 error envelope.
type APIError struct {
	Code   int    `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (code: %d)", e.Title, e.Detail, e.Code)
}

// CloudFoundryError is a non-2xx response from the platform. It is only built
// by NormalizeError and is never retried or swallowed by this package.
type CloudFoundryError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-" yaml:"status_code"`
	// Code is the platform failure code, or the HTTP status when the body
	// carried none.
	Code int `json:"code" yaml:"code"`
	// Description is the human readable failure.
	Description string `json:"description" yaml:"description"`
	// ErrorCode is the symbolic code, e.g. "CF-SpaceNotFound".
	ErrorCode string `json:"error_code" yaml:"error_code"`
	// Errors holds every entry of a v3 envelope.
	Errors []APIError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Error implements the error interface.
func (e *CloudFoundryError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s(%d): %s (status %d)", e.ErrorCode, e.Code, e.Description, e.StatusCode)
	}

	return fmt.Sprintf("%d: %s (status %d)", e.Code, e.Description, e.StatusCode)
}

// FirstError returns the first v3 error entry or nil.
func (e *CloudFoundryError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// NormalizeError converts a failed HTTP response into a *CloudFoundryError.
// Both the v2 envelope {code, description, error_code} and the v3 envelope
// {errors: [...]} are understood. A body that cannot be decoded yields the
// HTTP status as code and the status text as description.
func NormalizeError(statusCode int, body []byte) *CloudFoundryError {
	cfErr := &CloudFoundryError{StatusCode: statusCode}

	var wire struct {
		Code        int        `json:"code"`
		Description string     `json:"description"`
		ErrorCode   string     `json:"error_code"`
		Errors      []APIError `json:"errors"`
	}

	if len(strings.TrimSpace(string(body))) == 0 || json.Unmarshal(body, &wire) != nil {
		cfErr.Code = statusCode
		cfErr.Description = http.StatusText(statusCode)

		return cfErr
	}

	cfErr.Code = wire.Code
	cfErr.Description = wire.Description
	cfErr.ErrorCode = wire.ErrorCode
	cfErr.Errors = wire.Errors

	if first := cfErr.FirstError(); first != nil {
		if cfErr.Code == 0 {
			cfErr.Code = first.Code
		}

		if cfErr.Description == "" {
			cfErr.Description = first.Detail
		}

		if cfErr.ErrorCode == "" {
			cfErr.ErrorCode = first.Title
		}
	}

	if cfErr.Code == 0 {
		cfErr.Code = statusCode
	}

	if cfErr.Description == "" {
		cfErr.Description = http.StatusText(statusCode)
	}

	return cfErr
}

// ClientError is a failure on the client side of the exchange: the request
// could not be encoded or sent, or a successful response could not be decoded.
type ClientError struct {
	Op     string
	Method string
	URI    string
	Err    error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Method, e.URI, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Client error operations.
const (
	OpEncode = "encode"
	OpSend   = "send"
	OpRead   = "read"
	OpDecode = "decode"
	OpDial   = "dial"
)

// Common error codes.
const (
	ErrorCodeServiceUnavailable  = 10001
	ErrorCodeNotAuthenticated    = 10002
	ErrorCodeNotAuthorized       = 10003
	ErrorCodeBadRequest          = 10005
	ErrorCodeUnprocessableEntity = 10008
	ErrorCodeNotFound            = 10010
	ErrorCodeTooManyRequests     = 10013
	ErrorCodeUniquenessError     = 10016
	ErrorCodeSpaceNotFound       = 40004
	ErrorCodeAppNotFound         = 100004
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrAPIEndpointRequired   = errors.New("API endpoint is required")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrSkipTLSOnlyInDev      = errors.New("skipTLS is only allowed in development environments")
	ErrRootInfoRequestFailed = errors.New("root info request failed")
	ErrNoUAAOrLoginURL       = errors.New("no UAA or login URL found in API info response")
	ErrNoLoggingEndpoint     = errors.New("no logging endpoint configured or advertised")
	ErrEmptyResponseBody     = errors.New("empty response body")
)

// IsNotFound reports whether err is a platform "not found" failure.
func IsNotFound(err error) bool {
	cfErr := &CloudFoundryError{}
	if !errors.As(err, &cfErr) {
		return false
	}

	switch cfErr.Code {
	case ErrorCodeNotFound, ErrorCodeSpaceNotFound, ErrorCodeAppNotFound:
		return true
	}

	return cfErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	cfErr := &CloudFoundryError{}
	if errors.As(err, &cfErr) {
		return cfErr.Code == ErrorCodeNotAuthenticated || cfErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	cfErr := &CloudFoundryError{}
	if errors.As(err, &cfErr) {
		return cfErr.Code == ErrorCodeNotAuthorized || cfErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsClientError reports whether err is a transport or decode failure.
func IsClientError(err error) bool {
	clientErr := &ClientError{}

	return errors.As(err, &clientErr)
}

// IsValidationError reports whether err came from request validation.
func IsValidationError(err error) bool {
	validationErr := &RequestValidationError{}

	return errors.As(err, &validationErr)
}
