package api

import "github.com/cockroachdb/errors"

type ErrorCode string

var DefaultErrorCode = ErrorCode("unknown_error")

const DefaultUserMessage = "Something unexpected happened. Please try again later"

func WrapError(err *Error, msg string) *Error {
	return &Error{
		ErrorCode:     err.ErrorCode,
		UserMessage:   err.UserMessage,
		Details:       err.Details,
		InternalError: errors.Wrap(err.InternalError, msg),
	}
}

func CommitError(err error, errorCode ErrorCode, userMessage string) *Error {
	return &Error{
		ErrorCode:     errorCode,
		UserMessage:   userMessage,
		InternalError: err,
	}
}

// every usecase method returns this concrete type so that gateways get the
// code and user message without digging through the error chain
type Error struct {
	ErrorCode   ErrorCode
	UserMessage string
	// Details is caller facing diagnostic text, such as a tool's output.
	Details       string
	InternalError error
}

func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

func (e Error) Cause() error {
	return e.InternalError
}

func (e Error) Error() string {
	return e.InternalError.Error()
}
