package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/advcompro/garage-dashboard/internal/auth"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessions     *auth.SessionManager
	secureCookie bool
	logger       *zap.Logger
}

// NewSessionHandler creates the gate handler. secureCookie marks the session
// cookie Secure, which browsers only send over HTTPS.
func NewSessionHandler(sessions *auth.SessionManager, secureCookie bool, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Status godoc
// @Summary Session gate state
// @Description Reports whether the caller holds a valid session. Always unlocked when the gate is disabled.
// @Tags Session
// @Produce json
// @Success 200 {object} domain.SessionDTO
// @Router /session [get]
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Enabled() {
		respondJSON(w, http.StatusOK, domain.SessionDTO{Unlocked: true})
		return
	}

	dto := domain.SessionDTO{}
	if token := auth.TokenFromRequest(r); token != "" {
		if claims, err := h.sessions.Validate(token); err == nil {
			dto.Unlocked = true
			if claims.ExpiresAt != nil {
				exp := claims.ExpiresAt.Time
				dto.ExpiresAt = &exp
			}
		}
	}
	respondJSON(w, http.StatusOK, dto)
}

// Unlock godoc
// @Summary Unlock the dashboard
// @Description Checks the shop passcode and issues a session token, also set as a cookie
// @Tags Session
// @Accept json
// @Produce json
// @Param request body domain.UnlockRequest true "Passcode"
// @Success 200 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Router /session/unlock [post]
func (h *SessionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Enabled() {
		respondJSON(w, http.StatusOK, domain.SessionDTO{Unlocked: true})
		return
	}

	var req domain.UnlockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, expiresAt, err := h.sessions.Unlock(r.Context(), req.Passcode)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPasscode) {
			respondWithError(w, http.StatusUnauthorized, "Incorrect passcode")
			return
		}
		respondError(w, r, h.logger, err, "Failed to unlock dashboard")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, domain.SessionDTO{
		Unlocked:  true,
		Token:     token,
		ExpiresAt: &expiresAt,
	})
}

// Lock godoc
// @Summary Lock the dashboard
// @Description Ends every open session
// @Tags Session
// @Produce json
// @Success 200 {object} domain.SessionDTO
// @Security SessionToken
// @Router /session/lock [post]
func (h *SessionHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.sessions.Lock(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, domain.SessionDTO{Unlocked: !h.sessions.Enabled()})
}
