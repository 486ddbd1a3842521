package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures so callers can tell actionable input errors from transient store errors.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindNotAuthenticated       Kind = "not_authenticated"
	KindRemoteStore            Kind = "remote_store"
	KindNotFound               Kind = "not_found"
	KindPreconditionFailed     Kind = "precondition_failed"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindInternal               Kind = "internal"
)

// Error is the error contract shared by the core packages.
type Error struct {
	Kind    Kind
	Op      string // operation name, ex: "resumes.Replace"
	Message string // safe to show to clients
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error.
func E(kind Kind, op, msg string, err error) error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

// RemoteStore wraps a blob or record store failure. An error that already
// carries a kind is returned unchanged so failures are wrapped only once.
func RemoteStore(op, msg string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindRemoteStore, Op: op, Message: msg, Err: err}
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "unexpected server error"
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotAuthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindInvalidStateTransition:
		return http.StatusConflict
	case KindRemoteStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code maps err to the error code used in JSON error bodies.
func Code(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return "validation_error"
	case KindNotAuthenticated:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInvalidStateTransition:
		return "invalid_state_transition"
	case KindRemoteStore:
		return "remote_store_error"
	default:
		return "internal_error"
	}
}
