package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound indicates the store slot is empty
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the held session has passed its expiry
	ErrSessionExpired = errors.New("session.expired")

	// ErrCorruptSession indicates the persisted payload could not be decoded
	ErrCorruptSession = errors.New("session.corrupt")

	// ErrInvalidCredentials indicates the Authenticator rejected the credentials
	ErrInvalidCredentials = errors.New("session.invalid_credentials")

	// ErrAuthUnavailable indicates the Authenticator could not be reached or failed
	ErrAuthUnavailable = errors.New("session.auth_unavailable")

	// ErrMalformedIdentity indicates the Authenticator returned an unusable identity
	ErrMalformedIdentity = errors.New("session.malformed_identity")
)

// Messages returned in a failed Result.
const (
	MessageInvalidCredentials = "Invalid email or password"
	MessageLoginFailed        = "Login failed. Please try again."
)

// RejectionError is a credential rejection whose Message can be shown to the
// user verbatim.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return ErrInvalidCredentials.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidCredentials, e.Message)
}

func (e *RejectionError) Unwrap() error {
	return ErrInvalidCredentials
}

// Reject builds a RejectionError with the given display message.
func Reject(message string) error {
	return &RejectionError{Message: message}
}

// MessageFor derives the display message for a failed login.
func MessageFor(err error) string {
	var rejection *RejectionError
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return MessageInvalidCredentials
	}
	return MessageLoginFailed
}

// TransitionError reports an event that is not valid in the current state.
type TransitionError struct {
	From  State
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.From, e.Event)
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}
