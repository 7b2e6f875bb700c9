// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Bootstrap failure taxonomy.
var (
	// ErrInvalidServerURL indicates a malformed or hostless server endpoint.
	ErrInvalidServerURL = errors.New("invalid server url")

	// ErrNetwork indicates a transport-level failure reaching an endpoint.
	ErrNetwork = errors.New("network error")

	// ErrServer indicates a non-2xx response from the account service.
	ErrServer = errors.New("server error")

	// ErrAuthenticationFailed indicates login/register was rejected by the server.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCharacterCreationFailed indicates character creation was rejected by the server.
	ErrCharacterCreationFailed = errors.New("failed to create character")

	// ErrMalformedResponse indicates a response body that does not match the expected schema.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTokenLength indicates a session token that is not exactly 16 characters.
	ErrTokenLength = errors.New("invalid token length")

	// ErrWriteFailed indicates the launch configuration could not be written.
	ErrWriteFailed = errors.New("write failed")
)

// StatusError is a non-2xx answer from the account service.
// Body is the verbatim response text.
type StatusError struct {
	Op   error // ErrAuthenticationFailed or ErrCharacterCreationFailed
	Code int
	Body string
}

func (e *StatusError) Error() string {
	op := ErrServer
	if e.Op != nil {
		op = e.Op
	}
	return fmt.Sprintf("%s: %d - %s", op, e.Code, e.Body)
}

// Is reports a match against ErrServer and the operation sentinel.
func (e *StatusError) Is(target error) bool {
	return target == ErrServer || (e.Op != nil && target == e.Op)
}
