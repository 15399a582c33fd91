package service

import (
	"errors"
	"fmt"

	"shop-backend/internal/store"
)

// Kind classifies a domain failure
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not-found"
	KindConflict     Kind = "conflict"
	KindNotEligible  Kind = "not-eligible"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

// Error is a domain failure whose message is safe to show to the caller
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err. Anything that is not a domain Error is
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// notFoundOr maps store.ErrNotFound to a not-found Error and wraps anything
// else.
func notFoundOr(err error, what, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(KindNotFound, "%s not found", what)
	}
	return fmt.Errorf("%s: %w", op, err)
}
