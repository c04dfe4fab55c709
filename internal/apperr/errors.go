// Package apperr defines the closed error taxonomy shared by every layer.
// An error is either caused by the caller (4xx, logged at info) or by the
// system (5xx, logged at error with an opaque reference). Domain errors are
// constructors of the same Error type, not separate types.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidRequest
	KindValidation
	KindDuplicate
	KindAccessDenied
	KindAuthentication
	KindDatabase
	KindInternal
	KindConfiguration
	KindExternalDependency
	KindTimeout
)

// Status maps a kind to its transport status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest, KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindAccessDenied:
		return http.StatusForbidden
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindExternalDependency:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// UserError reports whether the caller caused the failure. It drives log
// severity and whether detail may be exposed in the response.
func (k Kind) UserError() bool {
	switch k {
	case KindNotFound, KindInvalidRequest, KindValidation, KindDuplicate,
		KindAccessDenied, KindAuthentication:
		return true
	}
	return false
}

type Error struct {
	Kind        Kind
	Message     string
	Code        string
	FieldErrors map[string]string
	// Ref is an opaque identifier handed to the caller for system errors,
	// so server logs can be correlated without leaking internals.
	Ref   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *Error {
	e := &Error{Kind: kind, Code: code, Message: message, cause: err}
	if !kind.UserError() {
		e.Ref = newRef()
	}
	return e
}

func Validation(message string, fieldErrors map[string]string) *Error {
	return &Error{
		Kind:        KindValidation,
		Code:        "VALIDATION_FAILED",
		Message:     message,
		FieldErrors: fieldErrors,
	}
}

// Domain constructors. They carry structured context in the message but map
// onto the shared taxonomy for transport purposes.

func TaskNotFound(id uint) *Error {
	return New(KindNotFound, "TASK_NOT_FOUND", fmt.Sprintf("task not found: id=%d", id))
}

func UserNotFound(id uint) *Error {
	return New(KindNotFound, "USER_NOT_FOUND", fmt.Sprintf("user not found: id=%d", id))
}

func DuplicateEmail(email string) *Error {
	return New(KindDuplicate, "DUPLICATE_EMAIL", fmt.Sprintf("email already exists: %s", email))
}

func DuplicateNickname(nickname string) *Error {
	return New(KindDuplicate, "DUPLICATE_NICKNAME", fmt.Sprintf("nickname already exists: %s", nickname))
}

func PasswordMismatch() *Error {
	return &Error{
		Kind:        KindValidation,
		Code:        "PASSWORD_MISMATCH",
		Message:     "password and password confirmation do not match",
		FieldErrors: map[string]string{"passwordConfirm": "must match password"},
	}
}

// InvalidCredentials is returned both for an unknown email and for a wrong
// password, so login failures give no user-enumeration signal.
func InvalidCredentials() *Error {
	return New(KindAuthentication, "INVALID_CREDENTIALS", "invalid email or password")
}

func LoginRequired() *Error {
	return New(KindAuthentication, "LOGIN_REQUIRED", "authentication required")
}

// Classify folds an arbitrary error into the taxonomy. Recognized sentinel
// errors keep their meaning; anything else becomes an internal error with a
// generic outward message and a fresh reference.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(err, KindNotFound, "RESOURCE_NOT_FOUND", "resource not found")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, KindTimeout, "TIMEOUT_ERROR", "operation timed out")
	}
	return Wrap(err, KindInternal, "INTERNAL_SERVER_ERROR", "an unexpected error occurred")
}

// Response is the wire shape of every error body.
type Response struct {
	Message     string            `json:"message"`
	Status      int               `json:"status"`
	ErrorCode   string            `json:"errorCode"`
	Timestamp   time.Time         `json:"timestamp"`
	Path        string            `json:"path,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Details     map[string]any    `json:"details,omitempty"`
}

// Response serializes the error for the caller. System errors never expose
// their cause; the only detail shared is the opaque reference.
func (e *Error) Response(path string) Response {
	resp := Response{
		Message:     e.Message,
		Status:      e.Kind.Status(),
		ErrorCode:   e.Code,
		Timestamp:   time.Now(),
		Path:        path,
		FieldErrors: e.FieldErrors,
	}
	if e.Ref != "" {
		resp.Details = map[string]any{"reference": e.Ref}
	}
	return resp
}

func newRef() string {
	ref, err := uuid.NewV4()
	if err != nil {
		return "unavailable"
	}
	return ref.String()
}
