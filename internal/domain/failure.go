package domain

import (
	"errors"
	"fmt"
)

// FailureKind tags why a cart or catalog operation did not succeed.
type FailureKind string

const (
	KindUnauthenticated FailureKind = "unauthenticated"
	KindDuplicateItem   FailureKind = "duplicate_item"
	KindNotFound        FailureKind = "not_found"
	KindServerError     FailureKind = "server_error"
	KindNetworkError    FailureKind = "network_error"
)

var (
	ErrUnauthenticated = errors.New("must be logged in to add to cart")
	ErrDuplicateItem   = errors.New("Item already in cart. Use the cart sidebar to update quantity or remove item.")
	ErrNotFound        = errors.New("resource not found")
	ErrServerError     = errors.New("Something went wrong. Check the backend console for more details")
	ErrNetworkError    = errors.New("Could not reach the backend. Check that it is running, reachable and returns valid JSON.")
)

var sentinels = map[FailureKind]error{
	KindUnauthenticated: ErrUnauthenticated,
	KindDuplicateItem:   ErrDuplicateItem,
	KindNotFound:        ErrNotFound,
	KindServerError:     ErrServerError,
	KindNetworkError:    ErrNetworkError,
}

// Failure is the tagged error returned by the gateway and the coordinator.
// Message is suitable for display; Status is the HTTP status when one was received.
type Failure struct {
	Kind    FailureKind
	Message string
	Status  int
	Err     error
}

// NewFailure builds a failure, falling back to the kind's generic message.
func NewFailure(kind FailureKind, message string, status int, err error) *Failure {
	if message == "" {
		if s, ok := sentinels[kind]; ok {
			message = s.Error()
		}
	}
	return &Failure{Kind: kind, Message: message, Status: status, Err: err}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches the sentinel error of the failure's kind, so callers can use
// errors.Is(err, domain.ErrNotFound).
func (f *Failure) Is(target error) bool {
	s, ok := sentinels[f.Kind]
	return ok && s == target
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf returns the failure kind of err, or "" if err is not a Failure.
func KindOf(err error) FailureKind {
	if f, ok := AsFailure(err); ok {
		return f.Kind
	}
	return ""
}

// DisplayMessage returns the message to show the user for err.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	if f, ok := AsFailure(err); ok {
		return f.Message
	}
	return err.Error()
}
