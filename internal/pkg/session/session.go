// Package session keeps server-side login state keyed by an opaque cookie id.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/act/eventportal/internal/app/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when the cookie is missing or the session expired
var ErrSessionNotFound = errors.New("session not found")

// Principal is the authenticated identity held by a session
type Principal struct {
	Role   models.RoleType `json:"role"`
	UserID int64           `json:"userId"`
}

// Session is the stored record behind a session cookie
type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists sessions. A zero ttl means the session never expires.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Manager ties session records to the HTTP cookie
type Manager struct {
	store  Store
	config CookieConfig
}

// NewManager creates a new Manager
func NewManager(store Store, config CookieConfig) *Manager {
	return &Manager{store: store, config: config}
}

// Store returns the underlying session store
func (m *Manager) Store() Store {
	return m.store
}

// Start issues a fresh session for p. Any session already attached to the request
// is deleted first, so a client holds at most one role at a time.
func (m *Manager) Start(c *gin.Context, p Principal) (*Session, error) {
	ctx := c.Request.Context()

	if oldID, err := c.Cookie(m.config.Name); err == nil && oldID != "" {
		if err := m.store.Delete(ctx, oldID); err != nil {
			return nil, fmt.Errorf("failed to drop previous session: %w", err)
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		Principal: p,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Save(ctx, s, m.config.TTL); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.config.Name, s.ID, int(m.config.TTL.Seconds()), "/", "", m.config.Secure, true)
	return s, nil
}

// Load returns the session attached to the request
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	id, err := c.Cookie(m.config.Name)
	if err != nil || id == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(c.Request.Context(), id)
}

// Destroy deletes the session attached to the request and clears the cookie.
// It succeeds when no session exists.
func (m *Manager) Destroy(c *gin.Context) error {
	id, err := c.Cookie(m.config.Name)
	if err == nil && id != "" {
		if err := m.store.Delete(c.Request.Context(), id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.config.Name, "", -1, "/", "", m.config.Secure, true)
	return nil
}
