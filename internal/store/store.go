package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"gazlink/internal/config"
)

// Store manages entity, label, and match persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the gazlink database and ensures the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Database.Path
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if cfg.Database.BulkPragmas {
		// Bulk profile from the reference workload: a crashed run is
		// replaced wholesale on rerun, so durability buys nothing here.
		pragmas = append(pragmas,
			"PRAGMA journal_mode = OFF",
			"PRAGMA synchronous = 0",
			"PRAGMA cache_size = 1000000",
			"PRAGMA temp_store = MEMORY",
		)
	} else {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AcquireRunLock takes the exclusive run lock beside the database file. Match
// runs hold it for their entire duration so two runs never interleave their
// delete-then-insert windows. The returned release function is safe to call
// once.
func (s *Store) AcquireRunLock() (func(), error) {
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("database %s is locked by another run", s.path)
	}
	return func() { _ = s.lock.Unlock() }, nil
}
