package errs

import (
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewUnauthorizedError("Unauthorized")
)

func Malformed(payloadName string) *ApiErr {
	return NewInvalidInputError(payloadName + " malformed")
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		kind:       ErrInvalidInput,
		message:    fmt.Sprintf("%s is required", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		kind:       ErrInvalidInput,
		message:    fmt.Sprintf("Invalid %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		kind:       ErrInvalidInput,
		message:    "Invalid JSON body",
		Cause:      cause,
		Field:      "json",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		kind:       ErrInvalidInput,
		message:    fmt.Sprintf("Request body exceeds %d bytes", maxSize),
		Field:      "body_size",
	}
}
