package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for every failure category the API surfaces. Each ApiErr unwraps
// to exactly one of them, so callers can use errors.Is regardless of message.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("resource conflict")
	ErrInvalidUpload = errors.New("invalid upload")
	ErrNoOp          = errors.New("no fields to update")
	ErrInternal      = errors.New("internal server error")
	ErrCORSBlocked   = errors.New("request blocked by CORS policy")
)

type ApiErr struct {
	StatusCode int
	kind       error
	message    string
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		kind:       kind,
		message:    message,
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.kind.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// Unwrap exposes the category sentinel:
// errors.Is(NewNotFoundError("project not found"), ErrNotFound) ==> true
func (e *ApiErr) Unwrap() error {
	return e.kind
}

func NewNotFoundError(message string) *ApiErr {
	return NewApiErr(http.StatusNotFound, ErrNotFound, message)
}

func NewUnauthorizedError(message string) *ApiErr {
	return NewApiErr(http.StatusUnauthorized, ErrUnauthorized, message)
}

func NewInvalidInputError(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, ErrInvalidInput, message)
}

func NewConflictError(message string) *ApiErr {
	return NewApiErr(http.StatusConflict, ErrConflict, message)
}

func NewInvalidUploadError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		kind:       ErrInvalidUpload,
		message:    reason,
		Field:      "file",
	}
}

func NewNoOpError(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, ErrNoOp, message)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		kind:       ErrInternal,
		message:    message,
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		kind:       ErrCORSBlocked,
		message:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInvalidUpload(err error) bool {
	return errors.Is(err, ErrInvalidUpload)
}

func IsNoOp(err error) bool {
	return errors.Is(err, ErrNoOp)
}
