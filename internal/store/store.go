// Package store implements the durable clipboard history log.
//
// History lives in a single SQLite file. Writes are serialized through an
// in-process mutex on top of WAL journaling, so one writer and any number of
// concurrent readers (including a second process holding the file open, e.g.
// a debugging CLI next to the running daemon) never observe a half-written
// row.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS clipboard_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at  TEXT NOT NULL,
    content     TEXT NOT NULL,
    title       TEXT,
    category    TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_created ON clipboard_history(created_at);
`

// timeLayout is the stored timestamp format: RFC3339, always UTC.
const timeLayout = time.RFC3339

var (
	// ErrUnavailable wraps any failure of the underlying database file
	// (locked, corrupt, inaccessible). It is the only error kind append,
	// fetch and delete surface besides ErrNotFound.
	ErrUnavailable = errors.New("history store unavailable")

	// ErrNotFound is returned by FetchByID for an unknown id.
	ErrNotFound = errors.New("clip not found")
)

// Order selects the direction of FetchAll results.
type Order int

const (
	// Newest returns items in descending id order (most recent first).
	Newest Order = iota
	// Oldest returns items in ascending id order.
	Oldest
)

// ClipItem is one captured clipboard value. Items are immutable after
// insertion; Title and Category are optional metadata a UI layer may fill in.
type ClipItem struct {
	ID         int64
	CapturedAt time.Time // always UTC
	Title      string
	Category   string
	Text       string
}

// LocalDate returns the calendar date of CapturedAt in the machine's current
// local timezone. It is derived on every call rather than stored, so history
// regroups correctly when the user changes timezones.
func (it ClipItem) LocalDate() string {
	return it.CapturedAt.Local().Format("2006-01-02")
}

// Store is the append-only clipboard history log.
type Store struct {
	db *sql.DB

	// writeMu serializes Append and DeleteAll. Readers go straight to the
	// pool; WAL keeps them consistent against the single writer.
	writeMu sync.Mutex
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=3000")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", ErrUnavailable, err)
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

// Append inserts text as a new history item and returns it with its assigned
// id and UTC capture timestamp.
//
// Two cases are deliberate no-ops returning (nil, nil): text that is empty
// after trimming, and text identical to the current newest row (consecutive
// duplicates are suppressed at write time, inside the insert transaction, as
// a second line of defense behind the watcher's own last-seen check).
func (s *Store) Append(ctx context.Context, text string) (*ClipItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	var last string
	err = tx.QueryRowContext(ctx,
		`SELECT content FROM clipboard_history ORDER BY id DESC LIMIT 1`,
	).Scan(&last)
	switch {
	case err == nil:
		if last == text {
			return nil, nil
		}
	case errors.Is(err, sql.ErrNoRows):
		// empty log, nothing to compare against
	default:
		return nil, fmt.Errorf("%w: read last row: %v", ErrUnavailable, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO clipboard_history (created_at, content) VALUES (?, ?)`,
		now.Format(timeLayout), text,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: last insert id: %v", ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrUnavailable, err)
	}

	return &ClipItem{ID: id, CapturedAt: now, Text: text}, nil
}

// FetchAll returns a snapshot of every stored item in the requested order.
// The slice reflects the log at call time; callers re-fetch to see new items.
func (s *Store) FetchAll(ctx context.Context, order Order) ([]ClipItem, error) {
	dir := "DESC"
	if order == Oldest {
		dir = "ASC"
	}
	return s.query(ctx, fmt.Sprintf(
		`SELECT id, created_at, title, category, content
		 FROM clipboard_history ORDER BY id %s`, dir))
}

// FetchRecent returns up to limit items, newest first, optionally filtered by
// a substring match over content, title and category.
func (s *Store) FetchRecent(ctx context.Context, limit int, search string) ([]ClipItem, error) {
	if search != "" {
		pat := "%" + search + "%"
		return s.query(ctx,
			`SELECT id, created_at, title, category, content
			 FROM clipboard_history
			 WHERE content LIKE ? OR title LIKE ? OR category LIKE ?
			 ORDER BY id DESC LIMIT ?`,
			pat, pat, pat, limit)
	}
	return s.query(ctx,
		`SELECT id, created_at, title, category, content
		 FROM clipboard_history ORDER BY id DESC LIMIT ?`, limit)
}

// FetchByID returns the item with the given id, or ErrNotFound.
func (s *Store) FetchByID(ctx context.Context, id int64) (*ClipItem, error) {
	items, err := s.query(ctx,
		`SELECT id, created_at, title, category, content
		 FROM clipboard_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return &items[0], nil
}

// DeleteAll removes every item and returns the number of rows deleted.
//
// The AUTOINCREMENT counter is intentionally left alone: ids stay strictly
// increasing across a delete-all and are never reused, so stale ids held by
// a consumer can never silently resolve to a different item.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM clipboard_history`)
	if err != nil {
		return 0, fmt.Errorf("%w: delete all: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clipboard_history`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrUnavailable, err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]ClipItem, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var items []ClipItem
	for rows.Next() {
		var (
			it              ClipItem
			created         string
			title, category sql.NullString
		)
		if err := rows.Scan(&it.ID, &created, &title, &category, &it.Text); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		ts, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrUnavailable, created, err)
		}
		it.CapturedAt = ts.UTC()
		it.Title = title.String
		it.Category = category.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrUnavailable, err)
	}
	return items, nil
}
