package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the settings engine.
const (
	VerbSettingUpdated        = "settings.updated"
	VerbCollectionRegistered  = "settings.collection.registered"
	VerbCollectionRemoved     = "settings.collection.removed"
	VerbSettingsLoaded        = "settings.loaded"
	ObjectTypeSetting         = "setting"
	ObjectTypeCollection      = "settings.collection"
	ObjectTypeSettingsStorage = "settings.storage"
)

// SettingsEventInput carries the fields shared by settings lifecycle events.
type SettingsEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any

	Collection string
	Category   string
	Setting    string
	// StorageKey names the persisted document for load events.
	StorageKey string
	OldValue   any
	NewValue   any
	OccurredAt time.Time
}

// Path joins the non-empty collection, category and setting ids with dots.
func (in SettingsEventInput) Path() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{in.Collection, in.Category, in.Setting} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// BuildSettingUpdatedEvent describes a value written through the registry.
func BuildSettingUpdatedEvent(input SettingsEventInput) Event {
	event := buildSettingsEvent(VerbSettingUpdated, ObjectTypeSetting, input.Path(), input)
	if input.OldValue != nil {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["old_value"] = input.OldValue
	}
	// nil is a legitimate new value.
	event.Metadata = ensureMetadata(event.Metadata)
	event.Metadata["new_value"] = input.NewValue
	return event
}

// BuildCollectionRegisteredEvent describes a newly registered collection.
func BuildCollectionRegisteredEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbCollectionRegistered, ObjectTypeCollection, input.Collection, input)
}

// BuildCollectionRemovedEvent describes a collection removed from the schema.
func BuildCollectionRemovedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbCollectionRemoved, ObjectTypeCollection, input.Collection, input)
}

// BuildSettingsLoadedEvent describes a persisted document merged into state.
func BuildSettingsLoadedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsLoaded, ObjectTypeSettingsStorage, input.StorageKey, input)
}

func buildSettingsEvent(verb, objectType, objectID string, input SettingsEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Collection != "" {
		metadata = ensureMetadata(metadata)
		metadata["collection"] = input.Collection
	}
	if input.Category != "" {
		metadata = ensureMetadata(metadata)
		metadata["category"] = input.Category
	}
	if input.Setting != "" {
		metadata = ensureMetadata(metadata)
		metadata["setting"] = input.Setting
	}
	if path := input.Path(); path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = path
	}
	if input.StorageKey != "" {
		metadata = ensureMetadata(metadata)
		metadata["storage_key"] = input.StorageKey
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
