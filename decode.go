package settings

import (
	"github.com/goliatone/go-settings/internal/hydrate"
)

// Decode converts the live state of a collection into T using json struct
// tags. Categories become nested objects and leaf categories plain fields.
func Decode[T any](m *Manager, collectionID string) (T, error) {
	var zero T
	if m.Collection(collectionID) == nil {
		return zero, &UnknownCollectionError{ID: collectionID}
	}
	return hydrate.NewDecoder[T]().Decode(hydrate.Context{Collection: collectionID}, m.StateOf(collectionID))
}

// DecodeCategory converts one category of a collection into T.
func DecodeCategory[T any](m *Manager, collectionID, categoryID string) (T, error) {
	var zero T
	category, err := m.GetCategory(collectionID, categoryID)
	if err != nil {
		return zero, err
	}
	if category.IsLeaf() {
		return zero, &NotFoundError{Collection: collectionID, Category: categoryID}
	}
	state, _ := m.StateOf(collectionID)[categoryID].(map[string]any)
	return hydrate.NewDecoder[T]().Decode(hydrate.Context{Collection: collectionID, Category: categoryID}, state)
}
