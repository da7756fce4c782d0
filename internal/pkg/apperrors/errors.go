package apperrors

import "errors"

// Sentinel errors. HTTP status codes are chosen by matching against these with errors.Is.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	ErrNotAuthenticated   = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid or expired token")

	// ErrPermissionDenied is an authenticated principal acting on something it does not own
	ErrPermissionDenied = errors.New("unauthorized access")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	ErrEmailAlreadyExists = errors.New("email already exists")
)

// CustomError pairs a sentinel with the message shown to the client
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError wraps err with a client-facing message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// NewForbiddenError reports an ownership violation
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}

// NewUnauthorizedError reports a failed login
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrInvalidCredentials, message)
}

func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// MessageOf returns the client-facing message carried by err, or fallback
func MessageOf(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
