package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/internal/tree"
	"github.com/goliatone/go-settings/pkg/schemafile"
	"github.com/goliatone/go-settings/pkg/storage"
	"github.com/goliatone/go-settings/pkg/storage/badgerstore"
	"github.com/goliatone/go-settings/pkg/storage/sqlitestore"
)

var errUnsupportedStore = errors.New("unsupported store URI")

// openStore maps a store URI to a storage backend.
func openStore(ctx context.Context, uri, fileFormat string, logger *slog.Logger) (storage.Store, error) {
	scheme, location, ok := strings.Cut(uri, ":")
	if !ok {
		return nil, fmt.Errorf("%w %q: expected scheme:location", errUnsupportedStore, uri)
	}
	switch scheme {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file":
		format, err := storage.ParseFormat(fileFormat)
		if err != nil {
			return nil, err
		}
		return storage.NewFileStore(location, storage.WithFormat(format))
	case "badger":
		return badgerstore.Open(badgerstore.Config{
			Path:     location,
			InMemory: location == "",
			Logger:   logger,
		})
	case "sqlite":
		return sqlitestore.Open(ctx, location)
	default:
		return nil, fmt.Errorf("%w %q", errUnsupportedStore, uri)
	}
}

// session is one loaded manager over an open store.
type session struct {
	manager *settings.Manager
	store   storage.Store
	logger  *slog.Logger
}

func (a *app) open(ctx context.Context, logger *slog.Logger) (*session, error) {
	store, err := openStore(ctx, a.cfg.Store, a.cfg.FileFormat, logger)
	if err != nil {
		return nil, err
	}
	s := &session{store: store, logger: logger}

	m, err := settings.New(
		settings.WithStore(store),
		settings.WithStorageKey(a.cfg.StorageKey),
		settings.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.manager = m

	for _, path := range a.cfg.Schema {
		collections, err := schemafile.Load(path)
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		if err := schemafile.Register(m, collections); err != nil {
			return nil, errors.Join(fmt.Errorf("register %s: %w", path, err), s.Close())
		}
	}

	if err := m.Load(ctx); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

func (s *session) Close() error {
	if closer, ok := s.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// resolve turns a dotted CLI reference into a path. References without a
// registered collection prefix address the default collection.
func (s *session) resolve(ref string) (settings.Path, error) {
	ref = strings.Trim(ref, ".")
	if ref == "" {
		return settings.Path{}, fmt.Errorf("empty setting path")
	}
	segments := strings.Split(ref, ".")
	if len(segments) == 2 && s.manager.Collection(segments[0]) != nil {
		return settings.Path{Collection: segments[0], Category: segments[1]}, nil
	}
	return settings.ParsePath(ref, settings.DefaultCollectionID, ""), nil
}

func (s *session) lookup(path settings.Path) (any, bool) {
	return tree.Lookup(s.manager.State(), path.Collection, path.Category, path.Setting)
}
