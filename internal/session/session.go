package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

// Manager issues an opaque browser session id in a cookie. The id only
// scopes draft selections; nothing else is stored against it.
type Manager struct {
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{cookieName: cookieName, ttl: ttl, secure: secure}
}

// Middleware reuses a well-formed session cookie or issues a new one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.fromCookie(r)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

func (m *Manager) fromCookie(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID returns the session id stored in ctx, or "" outside the middleware.
func ID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
