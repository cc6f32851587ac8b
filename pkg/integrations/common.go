package integrations

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	// It is always accompanied by ErrNetwork, since any non-2xx status is a
	// failed listing request.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client for API requests. A timeout of zero
// leaves requests bounded only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{Timeout: timeout}
}
