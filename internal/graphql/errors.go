package graphql

import (
	"errors"

	"github.com/veikkola/phonebook/internal/storage"
)

// Machine-readable error codes surfaced in the GraphQL error extensions.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeBadUserInput       = "BAD_USER_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// Error is a resolver failure carrying a machine-readable code, the
// offending argument if any, and the underlying cause for diagnostics.
// It implements gqlerrors.ExtendedError so the code and argument reach the
// client in the error extensions.
type Error struct {
	Message     string
	Code        string
	InvalidArgs string
	Cause       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Extensions returns the structured error payload for the GraphQL
// response.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.InvalidArgs != "" {
		ext["invalidArgs"] = e.InvalidArgs
	}
	if e.Cause != nil {
		ext["error"] = e.Cause.Error()
	}
	return ext
}

func errUnauthenticated() *Error {
	return &Error{Message: "not authenticated", Code: CodeUnauthenticated}
}

func errInvalidCredentials() *Error {
	return &Error{Message: "wrong credentials", Code: CodeInvalidCredentials}
}

func errNotFound(message, invalidArgs string) *Error {
	return &Error{Message: message, Code: CodeNotFound, InvalidArgs: invalidArgs}
}

// storeError classifies a storage failure, attaching the offending
// argument so clients can tell which input was rejected.
func storeError(message, invalidArgs string, err error) *Error {
	code := CodeInternal
	if errors.Is(err, storage.ErrDuplicate) || errors.Is(err, storage.ErrMissingField) {
		code = CodeBadUserInput
	}
	return &Error{
		Message:     message,
		Code:        code,
		InvalidArgs: invalidArgs,
		Cause:       err,
	}
}
