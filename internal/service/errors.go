// Package service holds the conversation orchestration logic.
package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a service failure for the transport layer.
type ErrorCode string

const (
	ErrorValidation ErrorCode = "VALIDATION"
	ErrorNotFound   ErrorCode = "NOT_FOUND"
	ErrorStorage    ErrorCode = "STORAGE"
	ErrorTimeout    ErrorCode = "TIMEOUT"
)

// Error is a coded service error wrapping an optional cause.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf returns the error's code, or ErrorStorage for anything untyped.
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrorStorage
}
