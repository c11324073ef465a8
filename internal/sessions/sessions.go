// Package sessions keeps short-lived per-browser state, used for flash
// messages shown after a form redirect.
package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/booknotes/internal/config"
)

const flashKey = "flash"

// Manager wraps scs.SessionManager with flash helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager backed by SQLite. sqlDB must be the
// main SQLite database; a sessions table is created if missing.
func NewManager(sqlDB *sql.DB, cfg config.Sessions) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	m := newManager(cfg)
	m.Store = sqlite3store.New(sqlDB)
	return m, nil
}

// NewMemoryManager creates a session manager with an in-process store.
// Used for non-SQLite databases and in tests.
func NewMemoryManager(cfg config.Sessions) *Manager {
	m := newManager(cfg)
	m.Store = memstore.New()
	return m
}

func newManager(cfg config.Sessions) *Manager {
	sm := scs.New()
	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}
	sm.Cookie.Name = "booknotes_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	return &Manager{SessionManager: sm}
}

// Flash stores a one-time message for the next page view.
func (m *Manager) Flash(ctx context.Context, msg string) {
	m.Put(ctx, flashKey, msg)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(ctx context.Context) string {
	return m.PopString(ctx, flashKey)
}
