package collector

import (
	"errors"
	"fmt"
	"net/http"

	"match-analyzer/internal/riot"
)

// API key errors
var (
	ErrAPIKeyExpired   = errors.New("api key expired (401)")
	ErrAPIKeyForbidden = errors.New("api key forbidden (403)")
)

// IsAPIKeyError checks if an error indicates API key expiration (401 or 403)
func IsAPIKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAPIKeyExpired) || errors.Is(err, ErrAPIKeyForbidden) {
		return true
	}
	return riot.IsKeyRejected(err)
}

// WrapHTTPError wraps an HTTP response status code as an appropriate error
func WrapHTTPError(statusCode int, message string) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", message, ErrAPIKeyExpired)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAPIKeyForbidden)
	default:
		return fmt.Errorf("%s: status %d", message, statusCode)
	}
}

// keyError converts a rejected-key APIError into the matching sentinel
func keyError(err error, message string) error {
	var apiErr *riot.APIError
	if errors.As(err, &apiErr) {
		return WrapHTTPError(apiErr.StatusCode, message)
	}
	return fmt.Errorf("%s: %w", message, err)
}
