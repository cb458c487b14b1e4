package salesapi

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the core API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("core API returned status %d: %s", e.StatusCode, e.Body)
}

// StatusOf returns the HTTP status of an API error, or 0 when the
// error is not an APIError (network failure, decode failure).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage converts an error into guidance suitable for showing the
// user, categorized by status.
func UserMessage(err error) string {
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return "Please check your input and try again."
	case http.StatusUnauthorized:
		return "Your session has expired or your credentials are invalid. Please sign in again."
	case http.StatusForbidden:
		return "You don't have access to this yet. Finish onboarding or contact your manager."
	case http.StatusConflict:
		return "An account with this identity already exists. Contact support if this is unexpected."
	default:
		return "Something went wrong. Please try again."
	}
}
