package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed admin API call.
type ErrorKind string

const (
	// KindUnauthenticated means no credential was sent or it was rejected (401).
	// It is always resolved by clearing the session and redirecting to login.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindAuthorizationDenied means the login is valid but lacks the admin role.
	KindAuthorizationDenied ErrorKind = "authorization_denied"
	// KindTransport means the request never produced an HTTP response.
	KindTransport ErrorKind = "transport"
	// KindServerRejected means a non-401 error status was returned.
	KindServerRejected ErrorKind = "server_rejected"
)

// ErrTimeout is wrapped by transport errors caused by the request deadline.
var ErrTimeout = errors.New("request timed out")

// APIError is the structured failure returned by the admin API gateway.
// Status is 0 for transport failures.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

// Timeout reports whether the error was caused by the request deadline.
func (e *APIError) Timeout() bool {
	return errors.Is(e.Err, ErrTimeout)
}

// KindOf returns the ErrorKind of err, or "" when err is not an *APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsUnauthenticated reports whether err signals an invalid or missing credential.
func IsUnauthenticated(err error) bool {
	return KindOf(err) == KindUnauthenticated
}
