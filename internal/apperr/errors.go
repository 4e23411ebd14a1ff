// Package apperr defines the error taxonomy shared by the API layer and the
// storage layer. Every recognized failure maps to a stable code and an HTTP
// status; unknown failures degrade to INTERNAL_ERROR.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

type Code string

const (
	CodeValidation            Code = "VALIDATION_ERROR"
	CodeNotFound              Code = "NOT_FOUND"
	CodeForbidden             Code = "FORBIDDEN"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeConflict              Code = "CONFLICT"
	CodeNameTaken             Code = "NAME_TAKEN"
	CodeNoPresentParticipants Code = "NO_PRESENT_PARTICIPANTS"
	CodeIncompleteVotes       Code = "INCOMPLETE_VOTES"
	CodeInvalidState          Code = "INVALID_STATE"
	CodeDatabaseUnavailable   Code = "DATABASE_UNAVAILABLE"
	CodeInternal              Code = "INTERNAL_ERROR"
)

type Error struct {
	Code    Code
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func Validation(message string) *Error {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message, http.StatusConflict)
}

func NameTaken(message string) *Error {
	return New(CodeNameTaken, message, http.StatusConflict)
}

func NoPresentParticipants(message string) *Error {
	return New(CodeNoPresentParticipants, message, http.StatusBadRequest)
}

func IncompleteVotes(message string) *Error {
	return New(CodeIncompleteVotes, message, http.StatusBadRequest)
}

func InvalidState(message string) *Error {
	return New(CodeInvalidState, message, http.StatusBadRequest)
}

func DatabaseUnavailable() *Error {
	return New(CodeDatabaseUnavailable,
		"database temporarily unavailable, try again shortly",
		http.StatusServiceUnavailable)
}

func Internal(message string) *Error {
	if message == "" {
		message = "internal server error"
	}
	return New(CodeInternal, message, http.StatusInternalServerError)
}

// IsConnectionError reports whether err looks like a store connectivity
// failure. The match is deliberately by message substring: the patterns cover
// pgx dial errors, pooler rejections ("tenant or user not found") and plain
// refused connections, across drivers.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"tenant or user not found",
		"connection refused",
		"econnrefused",
		"connection",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// From normalizes any error into an *Error. Recognized *Error values pass
// through; connectivity failures become DATABASE_UNAVAILABLE; everything else
// becomes INTERNAL_ERROR with a generic message so raw driver errors never
// reach a client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsConnectionError(err) {
		return DatabaseUnavailable()
	}
	return Internal("")
}
