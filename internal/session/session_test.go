package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dstuk/tarot-bot/internal/language"
	"github.com/dstuk/tarot-bot/internal/session"
)

func TestNew_Defaults(t *testing.T) {
	s := session.New("@alice:example.com")

	if s.State != session.StateIdle {
		t.Errorf("new session state = %q, want idle", s.State)
	}
	if s.Language != language.English {
		t.Errorf("new session language = %q, want en", s.Language)
	}
	if s.ReadingCount != 0 || len(s.ReadingHistory) != 0 {
		t.Errorf("new session has readings: count=%d history=%d", s.ReadingCount, len(s.ReadingHistory))
	}
}

func TestSetLanguage_RejectsUnsupportedCode(t *testing.T) {
	s := session.New("@alice:example.com")

	s.SetLanguage(language.Ukrainian)
	if s.Language != language.Ukrainian {
		t.Errorf("language = %q, want uk", s.Language)
	}

	s.SetLanguage(language.Code("fr"))
	if s.Language != language.Ukrainian {
		t.Errorf("unsupported code mutated language to %q", s.Language)
	}
}

func TestAppendReading_MaintainsCountInvariant(t *testing.T) {
	s := session.New("@alice:example.com")

	for i := 0; i < 3; i++ {
		s.AppendReading(session.Reading{
			Kind:      session.ReadingAutomated,
			EntityIDs: []int{0, 1, 2},
			Language:  language.English,
			Timestamp: time.Now().UTC(),
		})
		if s.ReadingCount != len(s.ReadingHistory) {
			t.Fatalf("after append %d: count=%d history=%d", i+1, s.ReadingCount, len(s.ReadingHistory))
		}
	}
	if s.ReadingCount != 3 {
		t.Errorf("count = %d, want 3", s.ReadingCount)
	}
}

func TestValidate_CountMismatch(t *testing.T) {
	s := session.New("@alice:example.com")
	s.ReadingCount = 2

	if err := s.Validate(); err == nil {
		t.Error("Validate accepted count/history mismatch")
	}
}

func TestValidate_InvalidState(t *testing.T) {
	s := session.New("@alice:example.com")
	s.State = session.State("daydreaming")

	if err := s.Validate(); err == nil {
		t.Error("Validate accepted unknown state")
	}
}

func TestSession_JSONFieldNames(t *testing.T) {
	s := session.New("@alice:example.com")
	s.AppendReading(session.Reading{
		Kind:           session.ReadingAutomated,
		EntityIDs:      []int{19, 18, 0},
		Question:       "What lies ahead?",
		PositionLabels: []string{"Past", "Present", "Future"},
		ResultText:     "A bright turn.",
		Language:       language.English,
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"userId", "language", "state", "context", "readingCount", "readingHistory", "createdAt", "updatedAt"} {
		if _, ok := record[field]; !ok {
			t.Errorf("persisted record missing field %q", field)
		}
	}

	history := record["readingHistory"].([]any)
	entry := history[0].(map[string]any)
	for _, field := range []string{"kind", "entityIds", "question", "positionLabels", "resultText", "language", "timestamp"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("history entry missing field %q", field)
		}
	}
	// Timestamps serialize as ISO-8601.
	if ts := entry["timestamp"].(string); ts != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q, want RFC3339 UTC form", ts)
	}
}

func TestMemoryStore_RoundTripAndAbsent(t *testing.T) {
	store := session.NewMemoryStore(24 * time.Hour)
	ctx := context.Background()

	if _, err := store.Get(ctx, "@nobody:example.com"); err != session.ErrNotFound {
		t.Errorf("Get(unknown) err = %v, want ErrNotFound", err)
	}

	s := session.New("@alice:example.com")
	s.State = session.StateAwaitingQuestion
	if err := store.Set(ctx, s.UserID, s); err != nil {
		t.Fatalf("Set: %v", err)
	}

	loaded, err := store.Get(ctx, s.UserID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.State != session.StateAwaitingQuestion {
		t.Errorf("loaded state = %q, want awaiting_question", loaded.State)
	}

	// The store must hand out independent copies.
	loaded.State = session.StateProcessing
	again, _ := store.Get(ctx, s.UserID)
	if again.State != session.StateAwaitingQuestion {
		t.Error("mutating a loaded session leaked into the store")
	}
}

func TestMemoryStore_ExpiredRecordIsAbsent(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	s := session.New("@alice:example.com")
	if err := store.Set(ctx, s.UserID, s); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := store.Get(ctx, s.UserID); err != session.ErrNotFound {
		t.Errorf("Get(expired) err = %v, want ErrNotFound", err)
	}
	if ok, _ := store.Exists(ctx, s.UserID); ok {
		t.Error("Exists(expired) = true, want false")
	}
}

func TestManager_GetOrCreateAndSaveRoundTrip(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(24 * time.Hour))
	ctx := context.Background()

	s, err := mgr.GetOrCreate(ctx, "@alice:example.com")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.State != session.StateIdle {
		t.Errorf("fresh session state = %q", s.State)
	}

	if err := mgr.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Load-then-save of an unmodified session must round-trip identically
	// except for updatedAt.
	first, err := mgr.GetOrCreate(ctx, s.UserID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := mgr.Save(ctx, first); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	second, err := mgr.GetOrCreate(ctx, s.UserID)
	if err != nil {
		t.Fatalf("reload 2: %v", err)
	}

	second.UpdatedAt = first.UpdatedAt
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("round trip changed the record:\n%s\n%s", a, b)
	}
}

func TestManager_SaveRejectsInvariantViolation(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(24 * time.Hour))

	s := session.New("@alice:example.com")
	s.ReadingCount = 7
	if err := mgr.Save(context.Background(), s); err == nil {
		t.Error("Save accepted a count/history mismatch")
	}
}

func TestSQLiteStore_RoundTripAndExpiry(t *testing.T) {
	store, err := session.NewSQLiteStore(t.TempDir()+"/sessions.db", 24*time.Hour)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	s := session.New("@bob:example.com")
	s.AppendReading(session.Reading{
		Kind:      session.ReadingCustom,
		EntityIDs: []int{5},
		Language:  language.Russian,
		Timestamp: time.Now().UTC(),
	})
	if err := store.Set(ctx, s.UserID, s); err != nil {
		t.Fatalf("Set: %v", err)
	}

	loaded, err := store.Get(ctx, s.UserID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.ReadingCount != 1 || loaded.ReadingHistory[0].Kind != session.ReadingCustom {
		t.Errorf("loaded reading history mismatch: %+v", loaded.ReadingHistory)
	}

	if err := store.Delete(ctx, s.UserID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.UserID); err != session.ErrNotFound {
		t.Errorf("Get(deleted) err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ExpiredRecordIsAbsent(t *testing.T) {
	store, err := session.NewSQLiteStore(t.TempDir()+"/sessions.db", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	s := session.New("@carol:example.com")
	if err := store.Set(ctx, s.UserID, s); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := store.Get(ctx, s.UserID); err != session.ErrNotFound {
		t.Errorf("Get(expired) err = %v, want ErrNotFound", err)
	}
}
