package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure; it determines the HTTP status the error maps
// to and whether a caller can sensibly retry (only BadGateway is transient).
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindAuthentication
	KindBadGateway
	KindInternal
)

// Error is the single error shape the core returns. Title is a short
// category label, Detail a human-readable description used in responses
// and tests.
type Error struct {
	Kind   Kind
	Title  string
	Detail string
}

func (e *Error) Error() string {
	if e.Title == "" {
		return e.Detail
	}
	return e.Title + ": " + e.Detail
}

// Validation reports malformed input the core itself enforces.
func Validation(title, detail string) *Error {
	return &Error{Kind: KindValidation, Title: title, Detail: detail}
}

// NotFound reports a missing group, event, poll or option.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Title: "NotFoundError", Detail: fmt.Sprintf(format, args...)}
}

// Conflict reports a scheduling collision or a uniqueness violation.
func Conflict(title, detail string) *Error {
	return &Error{Kind: KindConflict, Title: title, Detail: detail}
}

// Authentication reports an actor acting on a group they do not belong to.
func Authentication(format string, args ...any) *Error {
	return &Error{Kind: KindAuthentication, Title: "AuthenticationError", Detail: fmt.Sprintf(format, args...)}
}

// BadGateway reports a failed or unparseable upstream response.
func BadGateway(detail string) *Error {
	return &Error{Kind: KindBadGateway, Title: "BadGatewayError", Detail: detail}
}

// Internal reports a broken persistence invariant. It is a defect, not a
// recoverable condition.
func Internal(detail string) *Error {
	return &Error{Kind: KindInternal, Title: "Internal server error", Detail: detail}
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error response. Errors that are not *Error
// are reported as an internal error without leaking their message.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("An unexpected error occurred")
	}
	c.JSON(StatusCode(appErr.Kind), gin.H{
		"title":  appErr.Title,
		"detail": appErr.Detail,
	})
}
