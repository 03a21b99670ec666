package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"go.uber.org/zap"
)

// CookieName is the cookie the browser UI keeps the session token in
const CookieName = "garage_session"

// Middleware enforces the session gate on HTTP requests
type Middleware struct {
	sessions *SessionManager
	logger   *zap.Logger
}

// NewMiddleware creates a new session middleware
func NewMiddleware(sessions *SessionManager, logger *zap.Logger) *Middleware {
	return &Middleware{sessions: sessions, logger: logger}
}

// TokenFromRequest reads a bearer token, falling back to the session cookie
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireUnlocked rejects requests without a valid session while the gate is enabled
func (m *Middleware) RequireUnlocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.sessions.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := TokenFromRequest(r)
		if token == "" {
			m.reject(w, r, "Dashboard is locked", nil)
			return
		}

		claims, err := m.sessions.Validate(token)
		if err != nil {
			m.reject(w, r, sessionErrorDetail(err), err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, detail string, err error) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	m.logger.Debug("session rejected", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
}

func sessionErrorDetail(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return "Session has expired"
	case errors.Is(err, ErrSessionLocked):
		return "Dashboard is locked"
	default:
		return "Invalid session token"
	}
}
