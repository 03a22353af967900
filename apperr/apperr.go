// Package apperr carries the error kinds the core services report.
// Controllers switch on Code(err) to pick a status; services never retry.
package apperr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	// ErrValidation: malformed or missing input, caller must fix and retry.
	ErrValidation ErrCode = "VALIDATION"
	// ErrNotFound: referenced entity does not exist.
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrCapacity: would violate a numeric invariant (availability bounds,
	// shelf capacity).
	ErrCapacity ErrCode = "CAPACITY"
	// ErrConflict: would violate a uniqueness or state-machine invariant
	// (duplicate loan, double return, occupied position, delete with open
	// loans).
	ErrConflict ErrCode = "CONFLICT"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func New(code ErrCode, msg string) error { return codedError{code: code, msg: msg} }

func Newf(code ErrCode, format string, args ...any) error {
	return codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the error code, or "" for errors the core did not classify.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

func Validation(msg string) error { return New(ErrValidation, msg) }
func NotFound(msg string) error   { return New(ErrNotFound, msg) }
func Capacity(msg string) error   { return New(ErrCapacity, msg) }
func Conflict(msg string) error   { return New(ErrConflict, msg) }
