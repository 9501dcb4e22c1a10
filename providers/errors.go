package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigError.
	ErrConfiguration = errors.New("invalid client configuration")

	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("resource not found")

	// ErrMissingIdentifier is wrapped by a *DecodeError when a record, or a
	// station passed to Refresh, has no stationIdentifier.
	ErrMissingIdentifier = errors.New("missing stationIdentifier")
)

// ConfigError is returned by NewClient before any request is made.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// TransportError wraps a failure to complete the HTTP exchange: DNS,
// connection resets, timeouts.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError is returned for any response other than 200 OK.
type UpstreamError struct {
	StatusCode int
	URL        string
	// Detail is the problem detail reported by the API, if any.
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Detail)
	}
	return fmt.Sprintf("API returned status %d for %s", e.StatusCode, e.URL)
}

// NotFoundError is an UpstreamError with status 404 on a detail endpoint.
// errors.As with *UpstreamError still matches it.
type NotFoundError struct {
	Resource string
	Upstream *UpstreamError
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return e.Upstream
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DecodeError reports a response body without the expected structure.
// Index is the position of the offending record, or -1 when the problem is
// not tied to a single record.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
