package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 12 * time.Hour

// Snapshots persists the lock state
type Snapshots interface {
	Load(ctx context.Context) (*cache.Snapshot, error)
	Update(ctx context.Context, fn func(*cache.Snapshot)) error
}

// SessionManager gates the dashboard behind a shop passcode. Unlocking issues
// a signed token; locking bumps the generation, which invalidates every token
// issued before it.
type SessionManager struct {
	enabled      bool
	passcodeHash []byte
	signingKey   []byte
	ttl          time.Duration
	snapshots    Snapshots
	logger       *zap.Logger
	now          func() time.Time

	mu         sync.RWMutex
	unlocked   bool
	generation int64
}

// SessionOption configures a SessionManager
type SessionOption func(*SessionManager)

// WithClock replaces time.Now for issuing and validating tokens
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// NewSessionManager validates the configuration. With sessions disabled every
// request is allowed.
func NewSessionManager(cfg *config.SessionConfig, snapshots Snapshots, logger *zap.Logger, opts ...SessionOption) (*SessionManager, error) {
	m := &SessionManager{
		enabled:   cfg.Enabled,
		ttl:       cfg.TTLDuration(),
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = defaultSessionTTL
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		logger.Info("Session gate disabled")
		return m, nil
	}

	if cfg.PasscodeHash == "" {
		return nil, fmt.Errorf("session.passcodeHash is required when sessions are enabled")
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasscodeHash)); err != nil {
		return nil, fmt.Errorf("session.passcodeHash is not a bcrypt hash: %w", err)
	}
	m.passcodeHash = []byte(cfg.PasscodeHash)

	if cfg.SigningKey != "" {
		m.signingKey = []byte(cfg.SigningKey)
	} else {
		m.signingKey = make([]byte, 32)
		if _, err := rand.Read(m.signingKey); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		logger.Warn("No session signing key configured, sessions will not survive a restart")
	}

	return m, nil
}

// HashPasscode returns a bcrypt hash for configuring session.passcodeHash
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hash), nil
}

// Enabled reports whether the gate is active
func (m *SessionManager) Enabled() bool {
	return m.enabled
}

// Restore reads the persisted lock state
func (m *SessionManager) Restore(ctx context.Context) error {
	if m.snapshots == nil {
		return nil
	}
	snap, err := m.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session state: %w", err)
	}
	m.mu.Lock()
	m.unlocked = snap.Session.Unlocked
	m.generation = snap.Session.Generation
	m.mu.Unlock()
	return nil
}

// Unlock checks the passcode and issues a session token
func (m *SessionManager) Unlock(ctx context.Context, passcode string) (string, time.Time, error) {
	if !m.enabled {
		return "", time.Time{}, nil
	}
	if err := bcrypt.CompareHashAndPassword(m.passcodeHash, []byte(passcode)); err != nil {
		m.logger.Warn("Rejected unlock attempt")
		return "", time.Time{}, ErrInvalidPasscode
	}

	m.mu.Lock()
	m.unlocked = true
	generation := m.generation
	m.mu.Unlock()

	token, expiresAt, err := signToken(m.signingKey, generation, m.now(), m.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	m.persist(ctx, true, generation)

	m.logger.Info("Dashboard unlocked", zap.Int64("generation", generation))
	return token, expiresAt, nil
}

// Lock ends every open session
func (m *SessionManager) Lock(ctx context.Context) {
	m.mu.Lock()
	m.unlocked = false
	m.generation++
	generation := m.generation
	m.mu.Unlock()

	m.persist(ctx, false, generation)
	m.logger.Info("Dashboard locked", zap.Int64("generation", generation))
}

// Validate parses a token and checks it against the current lock generation
func (m *SessionManager) Validate(token string) (*Claims, error) {
	claims, err := parseToken(m.signingKey, token, m.now())
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.unlocked || claims.Generation != m.generation {
		return nil, ErrSessionLocked
	}
	return claims, nil
}

// Unlocked reports the persisted gate state
func (m *SessionManager) Unlocked() bool {
	if !m.enabled {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unlocked
}

func (m *SessionManager) persist(ctx context.Context, unlocked bool, generation int64) {
	if m.snapshots == nil {
		return
	}
	err := m.snapshots.Update(ctx, func(snap *cache.Snapshot) {
		snap.Session = cache.SessionState{Unlocked: unlocked, Generation: generation}
	})
	if err != nil {
		m.logger.Warn("Failed to persist session state", zap.Error(err))
	}
}
