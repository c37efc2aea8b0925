package contentstore

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody limits how much of a failed response body is kept on a StoreError.
const maxErrorBody = 512

// StoreError is returned when the contents API answers with an unexpected status.
type StoreError struct {
	// Op is the store operation, "get" or "put".
	Op string

	// ID is the document id the request was for.
	ID string

	// StatusCode is the HTTP status returned by the API.
	StatusCode int

	// Body is the (truncated) response body.
	Body string
}

// Error implements the error interface
func (e *StoreError) Error() string {
	msg := fmt.Sprintf("contents %s for %s failed with status %d %s", e.Op, e.ID, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStoreError reports whether err is or wraps a *StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// StatusCode returns the HTTP status carried by a wrapped *StoreError, or 0.
func StatusCode(err error) int {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.StatusCode
	}
	return 0
}
