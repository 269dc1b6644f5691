package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrStopped is returned by a Store after Stop.
var ErrStopped = errors.New("analytics store stopped")

// maxBuffered triggers an early flush when this many events are pending.
const maxBuffered = 500

// Store buffers events in memory and writes them to SQLite on Flush.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending []Event
	stopped bool

	// kick wakes Run when the buffer fills up.
	kick chan struct{}
}

var _ Sink = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at path and migrates
// it. Use ":memory:" for an in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps in-memory databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
		kick:   make(chan struct{}, 1),
	}, nil
}

// StartSession implements Sink.
func (s *Store) StartSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return "", ErrStopped
	}

	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		id, formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Track implements Sink. Events tracked after Stop are dropped.
func (s *Store) Track(_ context.Context, e Event) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, e)
	full := len(s.pending) >= maxBuffered
	s.mu.Unlock()

	if full {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of buffered events.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush writes buffered events in one transaction. On failure the events
// are put back in front of anything tracked meanwhile.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := s.write(ctx, batch); err != nil {
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
		return err
	}
	s.logger.Debug("flushed analytics events", slog.Int("count", len(batch)))
	return nil
}

func (s *Store) write(ctx context.Context, batch []Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, session_id, name, dataset, props, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range batch {
		props := []byte("{}")
		if e.Props != nil {
			b, err := json.Marshal(e.Props)
			if err != nil {
				s.logger.Warn("dropping analytics event with unencodable props",
					slog.String("event", e.Name), slog.String("error", err.Error()))
				continue
			}
			props = b
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.SessionID, e.Name, e.Dataset, string(props), formatTime(e.At)); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// Run flushes every interval, and early when the buffer fills, until ctx is
// done. A final flush runs on exit.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return s.Flush(flushCtx)
		case <-ticker.C:
		case <-s.kick:
		}
		if err := s.Flush(ctx); err != nil {
			s.logger.Warn("analytics flush failed", slog.String("error", err.Error()))
		}
	}
}

// Stop flushes pending events and closes the database. Further calls are
// no-ops.
func (s *Store) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	flushErr := s.Flush(ctx)
	return errors.Join(flushErr, s.db.Close())
}

// EventFilter narrows ListEvents. Zero values match everything; Limit <= 0
// means 100.
type EventFilter struct {
	SessionID string
	Dataset   string
	Limit     int
}

// ListEvents returns flushed events, newest first.
func (s *Store) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, name, dataset, props, created_at
		FROM events
		WHERE (? = '' OR session_id = ?) AND (? = '' OR dataset = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
		f.SessionID, f.SessionID, f.Dataset, f.Dataset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Event, 0)
	for rows.Next() {
		var (
			e     Event
			props string
			at    string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Dataset, &props, &at); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &e.Props); err != nil {
			return nil, fmt.Errorf("failed to decode props of %s: %w", e.ID, err)
		}
		if len(e.Props) == 0 {
			e.Props = nil
		}
		if e.At, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSessions returns sessions with their flushed event counts, newest
// first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, COUNT(e.id)
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id, s.started_at
		ORDER BY s.started_at DESC, s.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Session, 0)
	for rows.Next() {
		var (
			sess Session
			at   string
		)
		if err := rows.Scan(&sess.ID, &at, &sess.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if sess.StartedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime uses a fixed-width layout so stored timestamps sort as text.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
