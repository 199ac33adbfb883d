// Package apperr carries the error taxonomy shared by services, storage
// and the HTTP layer. Storage translates driver errors into these kinds;
// the HTTP layer maps kinds to status codes and never inspects raw errors.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is the fallback for unexpected persistence failures.
	KindInternal Kind = iota
	// KindValidation marks malformed or out-of-range input.
	KindValidation
	// KindConflict marks a domain-state collision: duplicate bid,
	// already-active request, already-written review, already-settled request.
	KindConflict
	// KindPrecondition marks a missing prerequisite, e.g. a geo search
	// by a driver with no registered office.
	KindPrecondition
	// KindNotFound marks a mutation that matched zero rows.
	KindNotFound
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }
func Precondition(msg string) error { return &Error{Kind: KindPrecondition, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf reports the kind of err, KindInternal for anything
// outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsPrecondition(err error) bool { return KindOf(err) == KindPrecondition }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
