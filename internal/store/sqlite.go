package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single key/value table using the pure Go
// sqlite driver (modernc.org/sqlite).
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger

	notifier
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection also keeps ":memory:"
	// databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn().Err(err).Msg("could not set WAL mode")
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value BLOB NOT NULL,
        updated_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debug().Str("path", path).Msg("sqlite store opened")
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv(key, value, updated_at) VALUES(?,?,?)`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.notify(key, value)
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.notify(key, nil)
	return nil
}

// Subscribe implements Store.
func (s *SQLiteStore) Subscribe(key string, fn func([]byte)) func() {
	return s.subscribe(key, fn)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
