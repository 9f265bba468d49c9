// Package errors carries coded errors from repos and services up to the http envelope
package errors

// import as perr so it never shadows the standard errors package

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable half of an error
// the numeric values go over the wire, append new codes at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// ErrorCodeUnavailable means the datastore could not take the request, retry later
	ErrorCodeUnavailable
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	// ErrorCodeInvalidArgument is input that parsed but cannot be served
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a struct tag validation failure on a payload
	ErrorCodeValidation
	// ErrorCodeJSON is a body that is not the JSON we expect
	ErrorCodeJSON
	ErrorCodeNotFound
	// ErrorCodeDB is any other datastore failure
	ErrorCodeDB
	// ErrorCodeInvalidCursor is an after token that does not decode for the ranking in use
	ErrorCodeInvalidCursor
	// ErrorCodeInvalidRanking is a ranking argument outside the known set
	ErrorCodeInvalidRanking
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeInvalidCursor:   http.StatusBadRequest,
	ErrorCodeInvalidRanking:  http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
}

// Status maps a code to the http status the envelope is written with
// codes without an entry are server faults
func (c ErrorCode) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause and offending field
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the machine code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the input field at fault, empty when the error is not about one field
func (e *Error) Field() string { return e.field }

// Message is the text without the wrapped cause
func (e *Error) Message() string { return e.msg }

// Wire is the error part of the response envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// New builds a coded error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap codes cause, keeping it reachable through errors.Is and errors.As
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with formatting
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// Unauthorizedf builds an ErrorCodeUnauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// InvalidArgf builds an ErrorCodeInvalidArgument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf builds an ErrorCodeJSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the status err is reported with, 200 for nil
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return CodeOf(err).Status()
}

// WireFrom renders err for the envelope
// foreign errors keep their text under ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// WithField returns a copy of err naming field, foreign errors pass through untouched
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}
