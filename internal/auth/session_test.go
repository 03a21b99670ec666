package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advcompro/garage-dashboard/internal/auth"
	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func passcodeHash(t *testing.T, passcode string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newManager(t *testing.T, snapshots auth.Snapshots, opts ...auth.SessionOption) *auth.SessionManager {
	t.Helper()
	m, err := auth.NewSessionManager(&config.SessionConfig{
		Enabled:      true,
		PasscodeHash: passcodeHash(t, "4321-garage"),
		SigningKey:   "test-signing-key",
		TTL:          60,
	}, snapshots, zap.NewNop(), opts...)
	require.NoError(t, err)
	return m
}

func TestNewSessionManager_Validation(t *testing.T) {
	_, err := auth.NewSessionManager(&config.SessionConfig{Enabled: true}, nil, zap.NewNop())
	assert.Error(t, err, "passcode hash required")

	_, err = auth.NewSessionManager(&config.SessionConfig{Enabled: true, PasscodeHash: "12345678"}, nil, zap.NewNop())
	assert.Error(t, err, "plain text passcodes are refused")

	m, err := auth.NewSessionManager(&config.SessionConfig{Enabled: false}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, m.Enabled())
	assert.True(t, m.Unlocked())
}

func TestSessionManager_UnlockAndLock(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)

	_, _, err := m.Unlock(ctx, "wrong")
	assert.True(t, errors.Is(err, auth.ErrInvalidPasscode))
	assert.False(t, m.Unlocked())

	token, expiresAt, err := m.Unlock(ctx, "4321-garage")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, m.Unlocked())

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID())

	m.Lock(ctx)
	_, err = m.Validate(token)
	assert.True(t, errors.Is(err, auth.ErrSessionLocked))

	// A new unlock does not revive tokens from before the lock
	_, _, err = m.Unlock(ctx, "4321-garage")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.True(t, errors.Is(err, auth.ErrSessionLocked))
}

func TestSessionManager_Expiry(t *testing.T) {
	now := time.Now()
	m := newManager(t, nil, auth.WithClock(func() time.Time { return now }))

	token, _, err := m.Unlock(context.Background(), "4321-garage")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Validate(token)
	assert.True(t, errors.Is(err, auth.ErrExpiredToken))
}

func TestSessionManager_TamperedToken(t *testing.T) {
	m := newManager(t, nil)
	token, _, err := m.Unlock(context.Background(), "4321-garage")
	require.NoError(t, err)

	_, err = m.Validate(token + "x")
	assert.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestSessionManager_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	snapshots := cache.NewSnapshotStore(cache.NewMemory(), "test", zap.NewNop())

	first := newManager(t, snapshots)
	oldToken, _, err := first.Unlock(ctx, "4321-garage")
	require.NoError(t, err)
	first.Lock(ctx)
	token, _, err := first.Unlock(ctx, "4321-garage")
	require.NoError(t, err)

	second := newManager(t, snapshots)
	require.NoError(t, second.Restore(ctx))
	assert.True(t, second.Unlocked())

	_, err = second.Validate(token)
	assert.NoError(t, err)
	_, err = second.Validate(oldToken)
	assert.True(t, errors.Is(err, auth.ErrSessionLocked))
}

func TestMiddleware_RequireUnlocked(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	mw := auth.NewMiddleware(m, zap.NewNop())

	var sawSession bool
	handler := mw.RequireUnlocked(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSession = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")

	token, _, err := m.Unlock(ctx, "4321-garage")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, sawSession)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	m, err := auth.NewSessionManager(&config.SessionConfig{}, nil, zap.NewNop())
	require.NoError(t, err)
	mw := auth.NewMiddleware(m, zap.NewNop())

	handler := mw.RequireUnlocked(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
