package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is surfaced when a request stays 401 after the single
	// refresh-and-retry cycle; callers must treat the session as invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials covers rejected login attempts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedResponse marks a 2xx response missing required fields
	// (e.g. an auth response without user or access token). Never retried.
	ErrMalformedResponse = errors.New("invalid response from server")
	// ErrNotEligible is the client-side business-rule rejection: the caller
	// did not attend the event or the event has not ended yet.
	ErrNotEligible = errors.New("comments are available after the event ends for attendees")
	// ErrNotCommentAuthor rejects updates or deletes of someone else's review.
	ErrNotCommentAuthor = errors.New("only the author can modify this review")
	// ErrRoleSwitchRejected covers backend refusal of a role transition.
	ErrRoleSwitchRejected = errors.New("role switch rejected")
	// ErrSessionExists guards login/register while already authenticated.
	ErrSessionExists = errors.New("a session is already active")
	// ErrInterestConflict marks a toggle whose server-reported outcome
	// disagreed with the optimistic local mutation; the mutation has been
	// rolled back by the time this error is returned.
	ErrInterestConflict = errors.New("interest state disagreed with server")
)

// APIError is a non-2xx backend response carrying the server-supplied
// message, or the HTTP status text when the body had none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
}

// Is maps auth-shaped status codes onto the matching sentinels so callers
// can branch with errors.Is without inspecting status codes everywhere.
func (e *APIError) Is(target error) bool {
	if e.Status == http.StatusUnauthorized {
		return errors.Is(target, ErrUnauthorized)
	}
	return false
}

// NewAPIError builds an APIError, defaulting the message to the status text.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}

// ConnectivityError means the request never produced a response: DNS
// failure, refused connection, timeout. Always presented as a generic
// "try again" condition, never with transport internals.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ValidationError is a client-side rejection of a malformed payload or
// response before (or instead of) a network round trip.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UserMessage extracts the message a UI should show for err: backend
// messages verbatim where available, a generic retry prompt for transport
// failures, and the error text otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var connErr *ConnectivityError
	if errors.As(err, &connErr) {
		return "Something went wrong. Please try again."
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
