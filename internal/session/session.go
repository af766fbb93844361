// Package session carries the authenticated user through a request. A Session
// is created at login, removed at logout and read-only everywhere else.
package session

import (
	"context"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/models"
)

// Session is the identity attached to a bearer token.
type Session struct {
	Token             string    `json:"-"`
	UserID            string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	PreferredLanguage string    `json:"preferred_language"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// New builds the session for user.
func New(token string, user *models.User, expiresAt time.Time) *Session {
	return &Session{
		Token:             token,
		UserID:            user.ID,
		Email:             user.Email,
		Name:              user.Name,
		Role:              user.Role,
		PreferredLanguage: user.PreferredLanguage,
		ExpiresAt:         expiresAt,
	}
}

// IsArtisan reports whether the user manages products.
func (s *Session) IsArtisan() bool { return s.Role == models.RoleArtisan }

// Store persists sessions keyed by token. Get returns a not-found error for
// unknown or expired tokens.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Current is FromContext that reports a missing session as not authenticated.
func Current(ctx context.Context) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, apperr.NotAuthenticated("no active session")
	}
	return s, nil
}
