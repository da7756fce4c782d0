package middleware

import (
	"errors"
	"net/http"

	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// --- Central Error Handling ---

// HandleAPIError maps domain errors to status codes and writes the error envelope.
// The message carried by an apperrors.CustomError is passed to the client as is.
func HandleAPIError(c *gin.Context, err error) {
	var (
		status   int
		code     dto.ErrorCode
		fallback string
	)

	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		status, code, fallback = http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not logged in"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, code, fallback = http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status, code, fallback = http.StatusUnauthorized, dto.ErrorCodeForbidden, "Unauthorized access"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		status, code, fallback = http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or expired token"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status, code, fallback = http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		status, code, fallback = http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already exists"
	case errors.Is(err, apperrors.ErrConflict):
		status, code, fallback = http.StatusBadRequest, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrValidationFailed):
		status, code, fallback = http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		status, code, fallback = http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical),
		))
		return
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(
		dto.NewErrorDetail(code, apperrors.MessageOf(err, fallback)),
	))
}

// HandleBadRequest writes a 400 envelope with the given message
func HandleBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeBadRequest, message),
	))
}
