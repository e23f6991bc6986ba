package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		MessageID: "msg-1",
		Language:  "en",
		Sentence:  "Je pense",
		Raw:       "🇫🇷 [Je] [pense]\n🇬🇧 [I] [think]",
		Text:      "🇫🇷 [Je] [pense]\n🇬🇧 [I] [think]",
		Provider:  "openai",
		CreatedAt: time.UnixMilli(1700000000000),
	}

	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "msg-1", "en")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got != rec {
		t.Errorf("Get() = %+v, want %+v", *got, rec)
	}
}

func TestGet_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing", "en")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSave_Replaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Record{MessageID: "msg-1", Language: "fr", Sentence: "Hi", Raw: "a", Text: "a"}
	second := Record{MessageID: "msg-1", Language: "fr", Sentence: "Hi", Raw: "b", Text: "b"}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "msg-1", "fr")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Text != "b" {
		t.Errorf("Expected replaced text 'b', got %q", got.Text)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 record, got %d", len(all))
	}
}

func TestSave_SameMessageDifferentLanguages(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, lang := range []string{"fr", "ar"} {
		if err := store.Save(ctx, Record{MessageID: "msg-1", Language: lang, Sentence: "Hi", Raw: lang, Text: lang}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 records, got %d", len(all))
	}
}

func TestSave_Invalid(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(context.Background(), Record{Language: "en"}); err == nil {
		t.Error("Expected error for missing message id")
	}
	if err := store.Save(context.Background(), Record{MessageID: "x"}); err == nil {
		t.Error("Expected error for missing language")
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.UnixMilli(1700000000000)
	for i, id := range []string{"old", "middle", "new"} {
		rec := Record{
			MessageID: id,
			Language:  "en",
			Sentence:  id,
			Raw:       id,
			Text:      id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].MessageID != "new" || got[1].MessageID != "middle" {
		t.Errorf("Unexpected order: %s, %s", got[0].MessageID, got[1].MessageID)
	}
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if store.Path() != path {
		t.Errorf("Path() = %s, want %s", store.Path(), path)
	}
}
