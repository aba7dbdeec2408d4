package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the service. Message carries
// the body's Message field when present.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the human-readable message from the response body
	Message string `json:"Message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthenticated reports whether the service refused the request for lack
// of a valid bearer token.
func (e *APIError) IsUnauthenticated() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether the caller's role lacks the required access.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// parseErrorResponse turns a non-2xx response into an *APIError. Returns nil
// for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
