package security

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// SessionStore is the server-side session backend. *db.DB and *MemoryStore
// both implement it.
type SessionStore interface {
	// CreateSession returns apperr.ErrConflict if the token hash is taken.
	CreateSession(ctx context.Context, s *models.Session) error
	// GetSession returns nil, nil when there is no such session.
	GetSession(ctx context.Context, tokenHash string) (*models.Session, error)
	// DeleteSession is idempotent.
	DeleteSession(ctx context.Context, tokenHash string) error
	PurgeSessions(ctx context.Context, now time.Time) (int, error)
}

const createAttempts = 3

// SessionManager issues, resolves and revokes opaque session tokens bound to
// a user id for a fixed TTL.
type SessionManager struct {
	store    SessionStore
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

func NewSessionManager(store SessionStore, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionManager{
		store:    store,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: NewToken,
	}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create starts a session for userID and returns the token for the client.
func (m *SessionManager) Create(ctx context.Context, userID int64) (string, error) {
	for i := 0; i < createAttempts; i++ {
		token, err := m.newToken()
		if err != nil {
			return "", err
		}
		now := m.now()
		err = m.store.CreateSession(ctx, &models.Session{
			TokenHash: HashToken(token),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(m.ttl),
		})
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
		return token, nil
	}
	return "", errors.New("create session: token collision")
}

// Resolve returns the user bound to token. ok is false for unknown, expired
// or revoked tokens; err is reserved for backend failures.
func (m *SessionManager) Resolve(ctx context.Context, token string) (userID int64, ok bool, err error) {
	if token == "" {
		return 0, false, nil
	}
	hash := HashToken(token)
	s, err := m.store.GetSession(ctx, hash)
	if err != nil {
		return 0, false, fmt.Errorf("resolve session: %w", err)
	}
	if s == nil {
		return 0, false, nil
	}
	if s.Expired(m.now()) {
		if err := m.store.DeleteSession(ctx, hash); err != nil {
			slog.Warn("failed to purge expired session", "error", err)
		}
		return 0, false, nil
	}
	return s.UserID, true, nil
}

// Destroy revokes token. Destroying an unknown token is not an error.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, HashToken(token)); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// PurgeExpired removes every expired session from the backend.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	return m.store.PurgeSessions(ctx, m.now())
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (m *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.PurgeExpired(ctx)
			if err != nil {
				slog.Error("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}
