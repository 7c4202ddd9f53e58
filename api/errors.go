package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned by client constructors when no API key is
// configured.
var ErrMissingAPIKey = errors.New("blazee: API key must not be empty, get yours on https://blazee.io")

// AuthenticationError is returned for 403 responses: the API key was
// rejected by the service.
type AuthenticationError struct {
	StatusCode int
}

func (e AuthenticationError) Error() string {
	return "blazee: invalid API key, get yours on https://blazee.io"
}

// ServerError is returned for any response with a status of 500 or above,
// regardless of the response body.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e ServerError) Error() string {
	return fmt.Sprintf("blazee: service error (HTTP %d), please retry later or contact support@blazee.io", e.StatusCode)
}

// APIError is a structured error reported by the service in the `error`
// field of a response body. It may accompany any status code; StatusCode
// records which one.
type APIError struct {
	StatusCode int      `json:"-"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    []string `json:"details"`
}

func (e APIError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(e.Details, "; "))
	}
	return msg
}

// UploadError is returned when the direct binary upload to a pre-signed
// location fails. It is deliberately distinct from APIError: the upload
// endpoint is not part of the JSON API and its body has no structure we
// can rely on.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e UploadError) Error() string {
	return fmt.Sprintf("blazee: uploading model failed (HTTP %d): %s", e.StatusCode, e.Body)
}
