package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-settings/pkg/activity"
	"github.com/goliatone/go-settings/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsSettingUpdate(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildSettingUpdatedEvent(activity.SettingsEventInput{
		ActorID:        actorID.String(),
		UserID:         userID.String(),
		TenantID:       tenantID.String(),
		Channel:        "settings",
		DefinitionCode: "settings:update",
		Recipients:     []string{"recipient@example.com"},
		Collection:     "appearance",
		Category:       "window",
		Setting:        "transparent",
		NewValue:       true,
		OccurredAt:     now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity fields: %+v", record)
	}
	if record.Verb != activity.VerbSettingUpdated || record.ObjectType != activity.ObjectTypeSetting {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.ObjectID != "appearance.window.transparent" {
		t.Fatalf("expected dotted object id, got %q", record.ObjectID)
	}
	if record.Channel != "settings" {
		t.Fatalf("expected channel settings got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "settings:update" {
		t.Fatalf("expected definition_code metadata got %v", record.Data["definition_code"])
	}
	if record.Data["path"] != "appearance.window.transparent" || record.Data["new_value"] != true {
		t.Fatalf("expected metadata passthrough got %+v", record.Data)
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "recipient@example.com" {
		t.Fatalf("expected recipients metadata got %v", record.Data["recipients"])
	}
}

func TestHookNotifyFallsBackToConfiguredActor(t *testing.T) {
	sink := &recordingSink{}
	actorID := uuid.New()
	hook := usersink.Hook{Sink: sink, ActorID: actorID.String()}

	err := hook.Notify(context.Background(), activity.BuildCollectionRegisteredEvent(activity.SettingsEventInput{
		Collection: "plugins",
	}))
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 || sink.records[0].ActorID != actorID {
		t.Fatalf("expected configured actor, got %+v", sink.records)
	}
	if sink.records[0].ActorID == uuid.Nil {
		t.Fatalf("expected non-nil actor")
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyDefaultsTimestampAndInvalidIDs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbSettingsLoaded,
		ActorID:    "not-a-uuid",
		ObjectType: activity.ObjectTypeSettingsStorage,
		ObjectID:   "settings",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected invalid actor to map to uuid.Nil")
	}
}
