package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding a FileStore writes.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatTOML:
		return ".toml"
	default:
		return ".json"
	}
}

// ParseFormat maps a name or extension ("yaml", ".yml", "toml", ...) to a
// Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("storage: unsupported format %q", value)
	}
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFormat selects the on-disk encoding. JSON is the default.
func WithFormat(format Format) FileOption {
	return func(s *FileStore) {
		if format != "" {
			s.format = format
		}
	}
}

// WithFileMode sets the permissions used for new files.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		s.mode = mode
	}
}

// FileStore keeps one file per key inside a directory.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	format Format
	mode   os.FileMode
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage: directory is required")
	}
	s := &FileStore{dir: dir, format: FormatJSON, mode: 0o600}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
	}
	return s, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+s.format.Extension())
}

func (s *FileStore) GetData(ctx context.Context, key string) (map[string]any, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	raw, err := os.ReadFile(s.Path(key))
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: read %q: %w", key, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, true, nil
	}
	value, err := decode(s.format, raw)
	if err != nil {
		return nil, false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return value, true, nil
}

func (s *FileStore) SetData(ctx context.Context, key string, value map[string]any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := Encode(s.format, value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: chmod %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: replace %q: %w", key, err)
	}
	return nil
}

// Watch calls fn with the key of every document changed on disk until ctx
// is done. Writes made through this store are reported as well.
func (s *FileStore) Watch(ctx context.Context, fn func(key string)) error {
	if fn == nil {
		return fmt.Errorf("storage: watch callback is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("storage: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("storage: watch %s: %w", s.dir, err)
	}

	ext := s.format.Extension()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ext) {
				continue
			}
			fn(strings.TrimSuffix(name, ext))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("storage: watch %s: %w", s.dir, err)
		}
	}
}

// Encode renders a document in format. Nil values are dropped for TOML.
func Encode(format Format, value map[string]any) ([]byte, error) {
	if value == nil {
		value = map[string]any{}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(value)
	case FormatTOML:
		// TOML has no null.
		return toml.Marshal(dropNils(value))
	default:
		return json.MarshalIndent(value, "", "  ")
	}
}

func decode(format Format, raw []byte) (map[string]any, error) {
	out := map[string]any{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &out)
	case FormatTOML:
		err = toml.Unmarshal(raw, &out)
	default:
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func dropNils(value map[string]any) map[string]any {
	out := make(map[string]any, len(value))
	for key, item := range value {
		switch typed := item.(type) {
		case nil:
			continue
		case map[string]any:
			out[key] = dropNils(typed)
		default:
			out[key] = item
		}
	}
	return out
}
