// Package state persists browser state between runs: the active grouping
// and the set of open containers. Saves are debounced so navigating does
// not hammer the disk.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "treble"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager owns the state database. Save calls coalesce; Close flushes
// whatever is still pending.
type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *BrowserState
}

// Open creates or opens the state database in the XDG data directory.
func Open() (*Manager, error) {
	return OpenPath(filepath.Join(xdg.DataHome, appName, dbFileName))
}

// OpenPath opens the state database at an explicit location.
func OpenPath(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db}, nil
}

// Close flushes any pending save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveBrowser(m.db, *pending)
	}
	return m.db.Close()
}

// GetBrowser returns the saved browser state, nil on first run.
func (m *Manager) GetBrowser() (*BrowserState, error) {
	return getBrowser(m.db)
}

// SaveBrowser schedules a debounced write of the browser state.
func (m *Manager) SaveBrowser(state BrowserState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.flush)
}

func (m *Manager) flush() {
	m.saveMu.Lock()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveBrowser(m.db, *pending)
	}
}
