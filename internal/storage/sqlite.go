package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funkwit/pokemon-go-manager/internal/inventory"
)

// DefaultPath is the default history database location.
const DefaultPath = ".pgm/history.db"

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	// Path is the database file.
	Path string

	now func() time.Time

	mu sync.RWMutex
	db *sql.DB
}

// SQLiteStoreOption configures a SQLiteStore instance.
type SQLiteStoreOption func(*SQLiteStore)

// WithPath sets the database file.
func WithPath(path string) SQLiteStoreOption {
	return func(s *SQLiteStore) {
		s.Path = path
	}
}

// WithClock sets the time source used for archive timestamps.
func WithClock(now func() time.Time) SQLiteStoreOption {
	return func(s *SQLiteStore) {
		s.now = now
	}
}

// NewSQLiteStore creates a new SQLite-backed store. Call Init before use.
func NewSQLiteStore(opts ...SQLiteStoreOption) *SQLiteStore {
	s := &SQLiteStore{
		Path: DefaultPath,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init opens the database, creating its directory and schema as needed.
// Calling Init on an open store is a no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Path == "" {
		return ErrPathRequired
	}
	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	// One connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	s.db = db
	return nil
}

// RecordCycle writes a cycle record. An empty ID is replaced with a new UUID.
func (s *SQLiteStore) RecordCycle(ctx context.Context, rec *CycleRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO cycles (id, started_at, duration_ns, snapshot_digest,
			creatures, evolve, released, favorites, discarded, failed, dry_run, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.StartedAt.UnixNano(), int64(rec.Duration), rec.SnapshotDigest,
		rec.Creatures, rec.Evolve, rec.Release, rec.Favorites, rec.Discarded, rec.Failed,
		rec.DryRun, rec.Error)
	if err != nil {
		return fmt.Errorf("insert cycle %s: %w", rec.ID, err)
	}
	return nil
}

// ListCycles returns up to limit records, newest first.
func (s *SQLiteStore) ListCycles(ctx context.Context, limit int) ([]CycleRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, started_at, duration_ns, snapshot_digest,
			creatures, evolve, released, favorites, discarded, failed, dry_run, error
		FROM cycles
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var (
			rec      CycleRecord
			started  int64
			duration int64
		)
		if err := rows.Scan(&rec.ID, &started, &duration, &rec.SnapshotDigest,
			&rec.Creatures, &rec.Evolve, &rec.Release, &rec.Favorites, &rec.Discarded, &rec.Failed,
			&rec.DryRun, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		rec.StartedAt = time.Unix(0, started)
		rec.Duration = time.Duration(duration)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PutSnapshot archives an lz4-compressed snapshot keyed by its BLAKE3 digest.
func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *inventory.Snapshot) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	data, err := snap.Encode()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	digest, err := snap.Digest()
	if err != nil {
		return "", fmt.Errorf("digest snapshot: %w", err)
	}
	blob, err := compress(data)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (digest, archived_at, raw_size, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`, digest, s.now().UnixNano(), len(data), blob)
	if err != nil {
		return "", fmt.Errorf("insert snapshot %s: %w", digest, err)
	}
	return digest, nil
}

// GetSnapshot retrieves an archived snapshot by digest.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, digest string) (*inventory.Snapshot, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var blob []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE digest = ?`, digest).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query snapshot %s: %w", digest, err)
	}

	data, err := decompress(blob)
	if err != nil {
		return nil, false, fmt.Errorf("snapshot %s: %w", digest, err)
	}
	snap, err := inventory.DecodeSnapshot(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", digest, err)
	}
	return snap, true, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cycles (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			snapshot_digest TEXT NOT NULL DEFAULT '',
			creatures INTEGER NOT NULL,
			evolve INTEGER NOT NULL,
			released INTEGER NOT NULL,
			favorites INTEGER NOT NULL,
			discarded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			dry_run INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS cycles_started_at ON cycles (started_at);
		CREATE TABLE IF NOT EXISTS snapshots (
			digest TEXT PRIMARY KEY,
			archived_at INTEGER NOT NULL,
			raw_size INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
