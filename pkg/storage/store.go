package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey is returned for empty keys or keys that would escape
	// the backing namespace.
	ErrInvalidKey = errors.New("storage: invalid key")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("storage: store closed")
)

// Store loads and saves one nested document per key.
type Store interface {
	// GetData returns the document stored under key. ok is false when the
	// key has never been written.
	GetData(ctx context.Context, key string) (value map[string]any, ok bool, err error)
	// SetData replaces the document stored under key.
	SetData(ctx context.Context, key string, value map[string]any) error
}

// ValidateKey rejects keys that cannot be used by every backend.
func ValidateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if trimmed != key {
		return fmt.Errorf("%w: key %q has surrounding whitespace", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: key %q contains a path separator", ErrInvalidKey, key)
	}
	return nil
}
