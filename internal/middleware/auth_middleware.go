package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
)

// Context keys set by RoleRequired
const (
	ContextUserID   = "userID"
	ContextRoleType = "roleType"
)

// AuthMiddleware guards routes with the server-side session
type AuthMiddleware struct {
	sessions *session.Manager
	repos    *repositories.Repositories
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *session.Manager, repos *repositories.Repositories) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		repos:    repos,
	}
}

// RoleRequired lets the request through only when the session holds a principal
// of the given role that still exists in storage.
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.sessions.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				logger.Error().Err(err).Msg("Failed to load session")
			}
			abortNotLoggedIn(c)
			return
		}

		p := sess.Principal
		if p.Role != role {
			abortNotLoggedIn(c)
			return
		}

		exists, err := m.principalExists(c.Request.Context(), p)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		if !exists {
			abortNotLoggedIn(c)
			return
		}

		c.Set(ContextUserID, p.UserID)
		c.Set(ContextRoleType, p.Role)
		c.Next()
	}
}

func (m *AuthMiddleware) principalExists(ctx context.Context, p session.Principal) (bool, error) {
	var err error
	switch p.Role {
	case models.RoleAdmin:
		_, err = m.repos.Admins.GetByID(ctx, p.UserID)
	case models.RoleFaculty:
		_, err = m.repos.Faculties.GetByID(ctx, p.UserID)
	case models.RoleStudent:
		_, err = m.repos.Students.GetByID(ctx, p.UserID)
	default:
		return false, nil
	}

	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func abortNotLoggedIn(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not logged in"),
	))
}

// CurrentUserID returns the principal id stored by RoleRequired
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
