package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoCredentials matches any *NoCredentialsError.
var ErrNoCredentials = errors.New("no credentials")

// NoCredentialsError reports a missing token cache. Run the authorization
// command once to create it.
type NoCredentialsError struct {
	Path string
}

func (e *NoCredentialsError) Error() string {
	return fmt.Sprintf("no credentials: token cache %s not found (run spotifytv-auth first)", e.Path)
}

func (e *NoCredentialsError) Is(target error) bool {
	return target == ErrNoCredentials
}

// CacheCorruptError reports a token cache that exists but cannot be parsed.
type CacheCorruptError struct {
	Path string
	Err  error
}

func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("cache corrupt: %s: %v", e.Path, e.Err)
}

func (e *CacheCorruptError) Unwrap() error { return e.Err }

// TokenRefreshError reports a failed refresh-token exchange.
type TokenRefreshError struct {
	Err error
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *TokenRefreshError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the Web API.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := apiErrorMessage(e.Body)
	if msg == "" {
		return fmt.Sprintf("spotify error: %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("spotify error: %s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

// apiErrorMessage extracts error.message from a regular error object and
// falls back to the trimmed body.
func apiErrorMessage(body string) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(body)
}
