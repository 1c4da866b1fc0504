// Package store persists UI state between launches: window frame,
// expanded sidebar sections, selection, and recently opened items.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested state was never saved.
var ErrNotFound = errors.New("store: not found")

// recentsKept bounds the recents table; older rows are pruned on insert.
const recentsKept = 50

// Store handles SQLite storage for UI state.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// WindowFrame is a saved window position and size.
type WindowFrame struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Recent is one recently opened item, newest first.
type Recent struct {
	ID       string
	Title    string
	OpenedAt time.Time
}

// Open opens (creating if needed) the state database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Busy timeout for concurrent access from a second app instance.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ui_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ui_state table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS recents (
		id        TEXT PRIMARY KEY,
		title     TEXT NOT NULL,
		opened_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating recents table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO ui_state (key, value) VALUES (?, ?)",
		key, string(data),
	); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadJSON(key string, out any) error {
	var data string
	err := s.db.QueryRow("SELECT value FROM ui_state WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// SaveWindowFrame persists the window position and size.
func (s *Store) SaveWindowFrame(f WindowFrame) error {
	return s.saveJSON("window-frame", f)
}

// WindowFrame loads the saved window frame, or ErrNotFound.
func (s *Store) WindowFrame() (WindowFrame, error) {
	var f WindowFrame
	err := s.loadJSON("window-frame", &f)
	return f, err
}

// SaveExpanded persists the set of expanded sidebar section IDs.
func (s *Store) SaveExpanded(ids []string) error {
	return s.saveJSON("expanded-sections", ids)
}

// Expanded loads the expanded sidebar section IDs, or ErrNotFound.
func (s *Store) Expanded() ([]string, error) {
	var ids []string
	err := s.loadJSON("expanded-sections", &ids)
	return ids, err
}

// SaveSelection persists the selected item ID.
func (s *Store) SaveSelection(id string) error {
	return s.saveJSON("selection", id)
}

// Selection loads the saved selection, or ErrNotFound.
func (s *Store) Selection() (string, error) {
	var id string
	err := s.loadJSON("selection", &id)
	return id, err
}

// TouchRecent records an item as just opened, moving it to the front of
// the recents list and pruning the tail.
func (s *Store) TouchRecent(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO recents (id, title, opened_at) VALUES (?, ?, ?)",
		id, title, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("saving recent: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM recents WHERE id NOT IN (
		SELECT id FROM recents ORDER BY opened_at DESC LIMIT ?
	)`, recentsKept); err != nil {
		return fmt.Errorf("pruning recents: %w", err)
	}
	return nil
}

// Recents returns up to limit recently opened items, newest first.
func (s *Store) Recents(limit int) ([]Recent, error) {
	if limit <= 0 || limit > recentsKept {
		limit = recentsKept
	}
	rows, err := s.db.Query(
		"SELECT id, title, opened_at FROM recents ORDER BY opened_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recents: %w", err)
	}
	defer rows.Close()

	var out []Recent
	for rows.Next() {
		var r Recent
		var at int64
		if err := rows.Scan(&r.ID, &r.Title, &at); err != nil {
			return nil, fmt.Errorf("scanning recent: %w", err)
		}
		r.OpenedAt = time.Unix(0, at)
		out = append(out, r)
	}
	return out, rows.Err()
}
