// Package sqlitestore persists settings documents in a SQLite table using the
// pure-Go ncruces driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/goliatone/go-settings/pkg/storage"
)

// DefaultTable is the table created by Open when none is configured.
const DefaultTable = "settings_data"

// Schema returns the DDL for table.
func Schema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, table)
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the table name.
func WithTable(table string) Option {
	return func(s *Store) {
		if table = strings.TrimSpace(table); table != "" {
			s.table = table
		}
	}
}

// Store implements storage.Store over database/sql.
type Store struct {
	db    *sql.DB
	table string
	owned bool
}

var _ storage.Store = (*Store)(nil)

// Open opens the database at dsn (a file path, "file:" URI or ":memory:")
// and creates the settings table.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlitestore: dsn is required")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", dsn, err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

// New uses an existing handle. The table is created if missing. Close leaves
// db open.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlitestore: db is required")
	}
	s := &Store{db: db, table: DefaultTable}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("sqlitestore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema(s.table)); err != nil {
		return nil, fmt.Errorf("sqlitestore: create table %s: %w", s.table, err)
	}
	return s, nil
}

func (s *Store) GetData(ctx context.Context, key string) (map[string]any, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	//nolint:gosec // table name comes from configuration, key is bound
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", s.table)

	var raw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if errors.Is(err, sql.ErrConnDone) {
		return nil, false, storage.ErrClosed
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: get %q: %w", key, err)
	}

	value := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("sqlitestore: decode %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetData(ctx context.Context, key string, value map[string]any) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = map[string]any{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode %q: %w", key, err)
	}
	//nolint:gosec // table name comes from configuration, values are bound
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		if errors.Is(err, sql.ErrConnDone) {
			return storage.ErrClosed
		}
		return fmt.Errorf("sqlitestore: set %q: %w", key, err)
	}
	return nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the handle when Open created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
