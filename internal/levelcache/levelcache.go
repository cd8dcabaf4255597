// Package levelcache persists fetched excitation levels in a local SQLite
// database so repeated planning runs do not hammer the NNDC service. It also
// provides Source, the cache-first excitation-level lookup the CLI uses.
package levelcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrOffline is returned by Source when a cache miss would require a network
// fetch but fetching is disabled.
var ErrOffline = errors.New("levelcache: not cached and network fetches are disabled")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS levels (
    isotope    TEXT PRIMARY KEY,
    energies   TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is a SQLite-backed excitation-level cache keyed by isotope label.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL mode and
// busy timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("levelcache: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and a single pooled
	// connection avoids SQLITE_BUSY between connections that each need their
	// own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("levelcache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("levelcache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("levelcache: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached levels for an isotope. The boolean is false on a
// cache miss; a miss is not an error.
func (s *Store) Get(ctx context.Context, isotope string) ([]float64, bool, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		"SELECT energies FROM levels WHERE isotope = ?", isotope).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("levelcache: get %q: %w", isotope, err)
	}

	var levels []float64
	if err := json.Unmarshal([]byte(encoded), &levels); err != nil {
		return nil, false, fmt.Errorf("levelcache: decode %q: %w", isotope, err)
	}
	return levels, true, nil
}

// Put upserts the levels for an isotope, refreshing the fetch timestamp.
// An empty level list is cached too: "no tabulated levels" is a valid answer
// worth remembering.
func (s *Store) Put(ctx context.Context, isotope string, levels []float64) error {
	if levels == nil {
		levels = []float64{}
	}
	encoded, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("levelcache: encode %q: %w", isotope, err)
	}

	const q = `
		INSERT INTO levels (isotope, energies, fetched_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(isotope) DO UPDATE SET energies = excluded.energies, fetched_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, isotope, string(encoded)); err != nil {
		return fmt.Errorf("levelcache: put %q: %w", isotope, err)
	}
	return nil
}

// Forget removes an isotope from the cache so the next lookup refetches.
func (s *Store) Forget(ctx context.Context, isotope string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM levels WHERE isotope = ?", isotope); err != nil {
		return fmt.Errorf("levelcache: forget %q: %w", isotope, err)
	}
	return nil
}

// Fetcher is the network side of the excitation source, satisfied by
// *nndc.Client.
type Fetcher interface {
	Levels(ctx context.Context, isotope string) ([]float64, error)
}

// Source combines the cache with a fetcher: cache hits skip the network,
// misses are fetched and stored. With Offline set, misses fail with
// ErrOffline instead of fetching.
type Source struct {
	Store   *Store
	Fetcher Fetcher
	Offline bool
}

// Levels returns the excitation levels for an isotope, consulting the cache
// first. Fetched results (including legitimately empty ones) are cached;
// fetch errors are returned as-is and cache nothing.
func (s *Source) Levels(ctx context.Context, isotope string) ([]float64, error) {
	levels, ok, err := s.Store.Get(ctx, isotope)
	if err != nil {
		return nil, err
	}
	if ok {
		return levels, nil
	}

	if s.Offline {
		return nil, fmt.Errorf("%w: %s", ErrOffline, isotope)
	}

	levels, err = s.Fetcher.Levels(ctx, isotope)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, isotope, levels); err != nil {
		return nil, err
	}
	return levels, nil
}
