package dto

import "time"

// ErrorCode is the machine-readable code carried by every error response
type ErrorCode string

const (
	ErrorCodeUnauthorized       ErrorCode = "NOT_LOGGED_IN"
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrorCodeForbidden          ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrorCodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	ErrorCodeResourceNotFound      ErrorCode = "NOT_FOUND"
	ErrorCodeResourceAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrorCodeConflict              ErrorCode = "CONFLICT"

	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeBadRequest       ErrorCode = "BAD_REQUEST"

	ErrorCodeInternalServer ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity marks errors that need operator attention
type ErrorSeverity string

const (
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"NOT_FOUND"`
	Message  string        `json:"message" example:"Event not found"`
	Field    string        `json:"field,omitempty" example:"email"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message, Severity: ErrorSeverityError}
}

func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

func NewErrorResponse(detail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{Error: detail, Timestamp: time.Now()}
}

// FieldError is one failed binding rule
type FieldError struct {
	Field   string `json:"field" example:"newPassword"`
	Message string `json:"message" example:"newPassword must be at least 6 characters"`
}

// ValidationErrors collects the failed rules of a request body in field order
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: []FieldError{}}
}

func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
	return v
}
