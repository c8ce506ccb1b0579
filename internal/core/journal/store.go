// Package journal persists observed requests to SQLite so a mock session can
// be inspected after the server has stopped.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Fixed-width so that timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("journal: store is closed")

// Store manages journal persistence. It is safe for concurrent use; Close
// waits for in-flight operations and later calls return ErrClosed.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewStore opens (or creates) the journal at dbPath. ":memory:" works for
// tests.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	// One connection keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id  TEXT NOT NULL,
			method      TEXT NOT NULL,
			host        TEXT,
			pathname    TEXT NOT NULL,
			raw_query   TEXT,
			route_name  TEXT,
			status_code INTEGER,
			duration_ns INTEGER,
			timestamp   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_requests_timestamp ON requests(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_requests_pathname ON requests(pathname);
	`)
	if err != nil {
		return fmt.Errorf("creating journal table: %w", err)
	}
	return nil
}

// Add inserts an entry and returns its row ID.
func (s *Store) Add(e Entry) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	result, err := s.db.Exec(`
		INSERT INTO requests (request_id, method, host, pathname, raw_query, route_name, status_code, duration_ns, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Method, e.Host, e.Pathname, e.RawQuery, e.RouteName,
		e.StatusCode, e.Duration.Nanoseconds(),
		e.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting journal entry: %w", err)
	}
	return result.LastInsertId()
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit, offset int) ([]Entry, error) {
	return s.ListFiltered(Filter{Limit: limit, Offset: offset})
}

// ListFiltered returns the entries matching f, newest first.
func (s *Store) ListFiltered(f Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}
	where, args := f.clauses()
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, request_id, method, host, pathname, raw_query, route_name, status_code, duration_ns, timestamp
		FROM requests` + where + `
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := s.db.Query(q, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns how many entries match f. Limit and Offset are ignored.
func (s *Store) Count(f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	where, args := f.clauses()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM requests`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting journal: %w", err)
	}
	return n, nil
}

func (f Filter) clauses() (string, []any) {
	var conds []string
	var args []any
	if f.Method != "" {
		conds = append(conds, "method = ?")
		args = append(args, strings.ToUpper(f.Method))
	}
	if f.PathPattern != "" {
		// instr, not LIKE: the pattern is a literal substring.
		conds = append(conds, "instr(pathname, ?) > 0")
		args = append(args, f.PathPattern)
	}
	if f.Route != "" {
		conds = append(conds, "route_name = ?")
		args = append(args, f.Route)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Clear removes all entries.
func (s *Store) Clear() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.Exec("DELETE FROM requests"); err != nil {
		return fmt.Errorf("clearing journal: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var host, rawQuery, route sql.NullString
		var durationNs int64
		var ts string
		err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &host, &e.Pathname, &rawQuery,
			&route, &e.StatusCode, &durationNs, &ts)
		if err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.Host = host.String
		e.RawQuery = rawQuery.String
		e.RouteName = route.String
		e.Duration = time.Duration(durationNs)
		e.Timestamp, _ = time.Parse(timeLayout, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
