// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// parseIDParam reads a positive int64 path parameter. It writes a 400 response and
// returns false when the value is malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleBadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// parseIDQuery reads a positive int64 query parameter; present is false when the
// parameter is missing.
func parseIDQuery(ctx *gin.Context, name string) (id int64, present, ok bool) {
	raw, exists := ctx.GetQuery(name)
	if !exists || raw == "" {
		return 0, false, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleBadRequest(ctx, "Invalid "+name)
		return 0, true, false
	}
	return id, true, true
}

// requireQuery reads a mandatory query parameter
func requireQuery(ctx *gin.Context, name string) (string, bool) {
	value := ctx.Query(name)
	if value == "" {
		middleware.HandleBadRequest(ctx, name+" is required")
		return "", false
	}
	return value, true
}

func respond(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message, data))
}

// login starts a session for the authenticated principal
func login(ctx *gin.Context, sessions *session.Manager, log zerolog.Logger, role models.RoleType, userID int64, profile interface{}) {
	if _, err := sessions.Start(ctx, session.Principal{Role: role, UserID: userID}); err != nil {
		log.Error().Err(err).Str("role", string(role)).Int64("userID", userID).Msg("Failed to start session")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Login successful", profile)
}

// logout destroys the session; it succeeds when no session exists
func logout(ctx *gin.Context, sessions *session.Manager, log zerolog.Logger, message string) {
	if err := sessions.Destroy(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to destroy session")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, message, nil)
}
