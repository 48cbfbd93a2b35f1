/*
Package sqlite provides the SQLite-backed Store implementation.

PURPOSE:
  Persists the exercise collection as a single JSON blob in a kv table,
  the server-side analog of the original client's localStorage slot.
  One key, one value; the unit of persistence is the whole collection.

SCHEMA:
  kv(key TEXT PRIMARY KEY, value TEXT, updated_at TEXT)

  Save is an upsert on CollectionKey. There is deliberately no
  per-exercise table: the engine's consistency story is "serialize the
  collection after every mutation", and a blob keeps load/save atomic
  without cross-table transactions.

FAILURE CONTRACT:
  Load never fails: a missing row or an unparseable value logs a
  warning and yields an empty collection (recover-with-default). Save
  errors are returned to the caller, which logs and continues with
  in-memory state.

WAL MODE:
  Opened with WAL for crash safety; a mutex serializes writers, which
  matches the engine's single-writer session model.

USAGE:
  st, err := sqlite.New("./data/quota.db")   // or ":memory:"
  defer st.Close()

SEE ALSO:
  - store/store.go: interface and failure contract
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/store"
)

// Store implements store.Store on a SQLite kv table.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for
// an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the collection blob. Missing or corrupt data yields an
// empty collection, never an error.
func (s *Store) Load(ctx context.Context) ([]*exercise.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, store.CollectionKey).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return []*exercise.Exercise{}, nil
	case err != nil:
		log.WithError(err).Warn("failed to read exercise collection, starting empty")
		return []*exercise.Exercise{}, nil
	}

	var list []*exercise.Exercise
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		log.WithError(err).Warn("corrupt exercise collection, starting empty")
		return []*exercise.Exercise{}, nil
	}
	if list == nil {
		list = []*exercise.Exercise{}
	}
	return list, nil
}

// Save upserts the collection blob.
func (s *Store) Save(ctx context.Context, list []*exercise.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode exercise collection: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		store.CollectionKey, string(blob), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write exercise collection: %w", err)
	}
	return nil
}
