package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDatabaseQuery             = errors.New("database query failed")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
)

// IsUniqueViolation reports whether err came from a unique index. gorm
// translates it when TranslateError is on; the string checks cover drivers
// and raw statements that bypass the translator.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrUniqueConstraintViolation) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func NewNotFound(entity string) *ApiErr {
	return NewNotFoundError(capitalize(entity) + " not found")
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	switch {
	case cause == nil:
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			kind:       ErrNotFound,
			message:    capitalize(entity) + " not found",
			Cause:      cause,
		}
	case IsUniqueViolation(cause):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			kind:       ErrConflict,
			message:    fmt.Sprintf("Failed to %s %s (slug must be unique)", operation, entity),
			Field:      "slug",
			Cause:      cause,
		}
	}

	wrapped := ErrDatabaseQuery
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", ErrDatabaseQuery, cause)
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		kind:       ErrInternal,
		message:    fmt.Sprintf("Failed to %s %s", operation, entity),
		Cause:      wrapped,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
