package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors covering the API failure categories. Services clone these
// with a concrete message instead of constructing codes ad hoc.
var (
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "dados inválidos")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "recurso não encontrado")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflito de programação")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "não autorizado")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "erro interno")
)

// Error carries a stable machine code, a user-facing message and the HTTP
// status the response layer should emit. The wrapped cause never reaches the
// client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap keeps err as the cause behind a typed error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone copies a sentinel, overriding its message when one is given.
func Clone(base *Error, message string) *Error {
	if base == nil {
		return nil
	}
	out := *base
	if message != "" {
		out.Message = message
	}
	return &out
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FromError coerces any error into *Error. Unknown errors become internal so
// their details stay out of responses.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}
