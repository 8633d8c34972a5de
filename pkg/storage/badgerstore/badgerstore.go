// Package badgerstore persists settings documents in an embedded BadgerDB.
//
// Each document is stored as JSON under "<prefix><key>", so several engines
// can share one database by using different prefixes.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/goliatone/go-settings/pkg/storage"
)

// DefaultPrefix namespaces settings keys inside the database.
const DefaultPrefix = "settings/"

// Config holds configuration for opening a BadgerDB backed store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool
	// SyncWrites fsyncs every write.
	SyncWrites bool
	// Prefix is prepended to every key. Defaults to DefaultPrefix.
	Prefix string
	// Logger receives BadgerDB's internal logs. Nil silences them.
	Logger *slog.Logger
}

// Store implements storage.Store on top of BadgerDB.
type Store struct {
	db     *badger.DB
	prefix string
	owned  bool
}

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) a database described by cfg. The returned store
// owns the database and closes it on Close.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badgerstore: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	store := New(db, cfg.Prefix)
	store.owned = true
	return store, nil
}

// New wraps an already opened database. Close leaves db open.
func New(db *badger.DB, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{db: db, prefix: prefix}
}

func (s *Store) GetData(ctx context.Context, key string) (map[string]any, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.db == nil || s.db.IsClosed() {
		return nil, false, storage.ErrClosed
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.dbKey(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badgerstore: get %q: %w", key, err)
	}

	value := map[string]any{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("badgerstore: decode %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetData(ctx context.Context, key string, value map[string]any) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil || s.db.IsClosed() {
		return storage.ErrClosed
	}
	if value == nil {
		value = map[string]any{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("badgerstore: encode %q: %w", key, err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.dbKey(key), raw)
	}); err != nil {
		return fmt.Errorf("badgerstore: set %q: %w", key, err)
	}
	return nil
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if !s.owned || s.db == nil || s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func (s *Store) dbKey(key string) []byte {
	return []byte(s.prefix + key)
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
