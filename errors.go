package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateCollection is matched by DuplicateCollectionError.
	ErrDuplicateCollection = errors.New("settings: duplicate collection")
	// ErrUnknownCollection is matched by UnknownCollectionError.
	ErrUnknownCollection = errors.New("settings: unknown collection")
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("settings: not found")
	// ErrDependencyPath is matched by DependencyPathError.
	ErrDependencyPath = errors.New("settings: unresolved dependency path")
	// ErrInvalidSchema reports structural problems in a collection definition.
	ErrInvalidSchema = errors.New("settings: invalid schema")
	// ErrInvalidPanel reports a panel registered with zero or several bodies.
	ErrInvalidPanel = errors.New("settings: invalid panel")
)

// DuplicateCollectionError is returned when a collection id is registered twice.
type DuplicateCollectionError struct {
	ID string
}

func (e *DuplicateCollectionError) Error() string {
	return fmt.Sprintf("settings: already have a collection with id %q", e.ID)
}

func (e *DuplicateCollectionError) Is(target error) bool {
	return target == ErrDuplicateCollection
}

// UnknownCollectionError is returned when a collection id is not registered.
type UnknownCollectionError struct {
	ID string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("settings: no collection with id %q", e.ID)
}

func (e *UnknownCollectionError) Is(target error) bool {
	return target == ErrUnknownCollection
}

// NotFoundError is returned when a schema node lookup fails.
type NotFoundError struct {
	Collection string
	Category   string
	Setting    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("settings: %s not found", describePath(e.Collection, e.Category, e.Setting))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DependencyPathError reports an enableWith path that does not resolve
// against the current state. It surfaces when Disabled is read.
type DependencyPathError struct {
	Node       string
	EnableWith string
	Path       Path
}

func (e *DependencyPathError) Error() string {
	return fmt.Sprintf("settings: node %q enableWith %q resolves to missing %s",
		e.Node, e.EnableWith, describePath(e.Path.Collection, e.Path.Category, e.Path.Setting))
}

func (e *DependencyPathError) Is(target error) bool {
	return target == ErrDependencyPath
}

func describePath(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}
	if len(filtered) == 0 {
		return "path <empty>"
	}
	return fmt.Sprintf("path %q", strings.Join(filtered, "."))
}
