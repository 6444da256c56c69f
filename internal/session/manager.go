package session

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/contratos/internal/api"
)

const (
	cookieName = "contratos"
	idKey      = "sid"
)

// DefaultTTL is the session lifetime when the token carries no expiry.
const DefaultTTL = 12 * time.Hour

// Manager ties browser cookies to stored sessions. The cookie holds only
// the session id.
type Manager struct {
	store   *Store
	cookies *sessions.CookieStore
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	onPurge []func(id string)
}

// NewManager creates a manager. Keys derived from secret sign and encrypt
// the cookie.
func NewManager(store *Store, secret string, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cookies := sessions.NewCookieStore(cookieKeys(secret)...)
	cookies.MaxAge(int(ttl.Seconds()))
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode

	return &Manager{
		store:   store,
		cookies: cookies,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// cookieKeys derives the HMAC key and the AES-256 key from secret.
func cookieKeys(secret string) [][]byte {
	hash := sha256.Sum256([]byte("hash:" + secret))
	block := sha256.Sum256([]byte("block:" + secret))
	return [][]byte{hash[:], block[:]}
}

// Begin stores a new session for auth and sets its cookie.
func (m *Manager) Begin(w http.ResponseWriter, r *http.Request, auth api.Auth) (*Session, error) {
	sess := New(auth, m.now(), m.ttl)
	if err := m.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}

	cookie, _ := m.cookies.Get(r, cookieName)
	cookie.Values[idKey] = sess.ID
	if err := cookie.Save(r, w); err != nil {
		return nil, fmt.Errorf("failed to save session cookie: %w", err)
	}

	m.logger.Info("session started", "session", sess.ID, "email", sess.Email, "expires", sess.ExpiresAt)
	return sess, nil
}

// Current returns the session referenced by the request's cookie.
func (m *Manager) Current(r *http.Request) (*Session, error) {
	id, ok := m.cookieID(r)
	if !ok {
		return nil, ErrNoSession
	}
	sess, err := m.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		if err := m.store.Delete(r.Context(), id); err != nil {
			m.logger.Warn("failed to delete expired session", "session", id, "error", err)
		}
		return nil, ErrExpired
	}
	return sess, nil
}

// End deletes the request's session and clears its cookie. It returns the
// id of the ended session, or "" when there was none.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) (string, error) {
	id, ok := m.cookieID(r)
	if ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			return "", err
		}
	}

	cookie, _ := m.cookies.Get(r, cookieName)
	delete(cookie.Values, idKey)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to clear session cookie: %w", err)
	}
	if ok {
		m.logger.Info("session ended", "session", id)
	}
	return id, nil
}

// OnPurge registers fn to be called with the id of every session removed
// by PurgeExpired.
func (m *Manager) OnPurge(fn func(id string)) {
	m.mu.Lock()
	m.onPurge = append(m.onPurge, fn)
	m.mu.Unlock()
}

// PurgeExpired removes expired sessions until ctx is done, once per interval.
func (m *Manager) PurgeExpired(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := m.purge(ctx); errors.Is(err, context.Canceled) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Manager) purge(ctx context.Context) error {
	ids, err := m.store.Purge(ctx, m.now())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			m.logger.Warn("failed to purge sessions", "error", err)
		}
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	m.logger.Debug("purged expired sessions", "count", len(ids))

	m.mu.Lock()
	hooks := append([]func(string){}, m.onPurge...)
	m.mu.Unlock()
	for _, id := range ids {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return nil
}

func (m *Manager) cookieID(r *http.Request) (string, bool) {
	cookie, err := m.cookies.Get(r, cookieName)
	if err != nil {
		return "", false
	}
	id, ok := cookie.Values[idKey].(string)
	return id, ok && id != ""
}
