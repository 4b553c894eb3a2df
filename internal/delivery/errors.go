package delivery

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates no Resend API key was configured.
var ErrMissingAPIKey = errors.New("RESEND_API_KEY is not set")

// ErrMissingRecipient indicates no destination address was provided.
var ErrMissingRecipient = errors.New("recipient address is not set")

// APIError represents a non-2xx response from the Resend API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resend API error: HTTP %d: %s", e.StatusCode, e.Body)
}
