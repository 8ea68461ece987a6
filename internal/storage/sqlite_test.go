package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", MemoryDSN, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent opens the same file database twice and checks
// the migration count is stable.
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(v1) == 0 || len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestFeedbackIndexExists(t *testing.T) {
	s := openTestStore(t)

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", "idx_feedback_created").Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if count != 1 {
		t.Errorf("index idx_feedback_created not found")
	}
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("007_add_thing.sql")
	if err != nil || v != 7 {
		t.Fatalf("got %d, %v; want 7, nil", v, err)
	}
	if _, err := parseMigrationVersion("bogus.sql"); err == nil {
		t.Error("expected error for unnumbered file")
	}
}

func TestSaveAndGetFeedback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveFeedback(ctx, Feedback{Rating: 4, Comment: "Nice site", RemoteIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled")
	}

	got, err := s.GetFeedback(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.Rating != 4 || got.Comment != "Nice site" || got.RemoteIP != "10.0.0.1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
}

func TestGetFeedback_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetFeedback(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSaveFeedback_RejectsOutOfRangeRating(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveFeedback(context.Background(), Feedback{Rating: 9}); err == nil {
		t.Error("expected CHECK constraint failure for rating 9")
	}
}

func TestListFeedback_NewestFirstAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.SaveFeedback(ctx, Feedback{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Rating:    i,
			Comment:   fmt.Sprintf("entry %d", i),
		})
		if err != nil {
			t.Fatalf("SaveFeedback %d: %v", i, err)
		}
	}

	list, err := s.ListFeedback(ctx, 3)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d entries, want 3", len(list))
	}
	for i, want := range []string{"entry 4", "entry 3", "entry 2"} {
		if list[i].Comment != want {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Comment, want)
		}
	}

	n, err := s.CountFeedback(ctx)
	if err != nil || n != 5 {
		t.Errorf("CountFeedback = %d, %v; want 5", n, err)
	}
}

func TestListFeedback_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)
	list, err := s.ListFeedback(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("got %#v, want empty slice", list)
	}
}

func TestSaveFeedback_Concurrent(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.SaveFeedback(ctx, Feedback{Rating: i % 6}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent save: %v", err)
	}

	n, _ := s.CountFeedback(ctx)
	if n != 20 {
		t.Errorf("CountFeedback = %d, want 20", n)
	}
}
