package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid session.
var ErrUnauthorized = errors.New("unauthorized")

// Credential verification failures. These never reach the client individually,
// handlers collapse them into one generic message.
var (
	ErrUserNotFound      = errors.New("no user found with this email or username")
	ErrNoLocalCredential = errors.New("account has no password, use social login instead")
	ErrInvalidCredential = errors.New("invalid password")
)

// Onboarding and registration failures.
var (
	ErrAlreadyComplete = errors.New("profile already completed")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrWeakSecret      = errors.New("password must be at least 8 characters")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
)

// ErrProviderUnavailable indicates the external identity provider could not be reached
// or is not configured.
var ErrProviderUnavailable = errors.New("identity provider unavailable")

// AppError carries an HTTP status code and a client-safe message alongside the wrapped cause.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationFailedError wraps a specific validation sentinel (ErrInvalidFormat,
// ErrWeakSecret, ...) with the message naming the violated rule.
func NewValidationFailedError(message string, cause error) *AppError {
	return NewAppError(http.StatusBadRequest, message, errors.Join(ErrValidation, cause))
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func NewConflictError(message string, cause error) *AppError {
	return NewAppError(http.StatusConflict, message, errors.Join(ErrDuplicate, cause))
}

func NewGatewayError(message string) *AppError {
	return NewAppError(http.StatusBadGateway, message, ErrProviderUnavailable)
}
