// Package errors holds the sentinel errors shared across layers and the
// AppError type the HTTP layer renders. Only AppError.Message and Details are
// ever shown to clients; Internal is for logs.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrMissingSigningSecret = errors.New("token signing secret is not configured")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidFilter        = errors.New("invalid filter")
)

// Error types, as rendered in the "error" field of failure responses.
const (
	TypeValidation            = "validation_error"
	TypeConflict              = "conflict"
	TypeUnauthenticated       = "unauthenticated"
	TypeMalformedAuth         = "malformed_auth"
	TypeInvalidOrExpiredToken = "invalid_or_expired_token"
	TypeInvalidCredentials    = "invalid_credentials"
	TypeNotFound              = "not_found"
	TypeTooManyRequests       = "too_many_requests"
	TypeConfiguration         = "configuration_error"
	TypeToken                 = "token_error"
	TypeLogout                = "logout_error"
	TypeBadRequest            = "bad_request"
	TypeInternal              = "internal_error"
)

// FieldError describes one violated field of a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Code    int
	Type    string
	Message string
	// Details is rendered to the client: field errors for validation failures,
	// retry hints for rate limiting.
	Details  any
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

func NewValidation(fields []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeValidation,
		Message: "invalid input data",
		Details: fields,
	}
}

func NewBadRequest(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: TypeBadRequest, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Type: TypeConflict, Message: message}
}

func NewUnauthenticated() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeUnauthenticated,
		Message: "unauthorized, please log in",
	}
}

func NewMalformedAuth() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeMalformedAuth,
		Message: "token malformed",
	}
}

func NewInvalidOrExpiredToken(err error) *AppError {
	return &AppError{
		Code:     http.StatusUnauthorized,
		Type:     TypeInvalidOrExpiredToken,
		Message:  "invalid or expired token",
		Internal: err,
	}
}

// NewInvalidCredentials is used for both unknown email and wrong password.
func NewInvalidCredentials() *AppError {
	return &AppError{
		Code:     http.StatusBadRequest,
		Type:     TypeInvalidCredentials,
		Message:  "invalid email or password",
		Internal: ErrInvalidCredentials,
	}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: TypeNotFound, Message: message}
}

// RetryDetails is the payload attached to rate limit rejections.
type RetryDetails struct {
	RetryAfterSeconds int `json:"retryAfterSeconds"`
}

func NewTooManyRequests(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Type:    TypeTooManyRequests,
		Message: "You have exceeded the request limit. Please wait and try again in a few minutes.",
		Details: RetryDetails{RetryAfterSeconds: retryAfterSeconds},
	}
}

func NewConfiguration(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeConfiguration,
		Message:  "server is not configured to issue tokens",
		Internal: err,
	}
}

func NewTokenError(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeToken,
		Message:  "token can't be generated",
		Internal: err,
	}
}

func NewLogoutError(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeLogout,
		Message:  "logout failed",
		Internal: err,
	}
}

// NewInternal hides err behind a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeInternal,
		Message:  "an unexpected error occurred, please try again",
		Internal: err,
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
