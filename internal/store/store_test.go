package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/papapumpkin/stencil/internal/template"
)

// testStore creates a temporary SQLite store for testing and registers cleanup.
func testStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "metadata.db")
	s, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(name string) template.Record {
	return template.Record{
		Name:           name,
		Description:    "a sample project layout",
		Commands:       []string{"git init", "npm install"},
		Ignore:         []string{"**/target/**", "*.log"},
		CompressedSize: 2048,
		Created:        time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates database in WAL mode", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		var mode string
		if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("query journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want %q", mode, "wal")
		}
	})

	t.Run("idempotent schema creation", func(t *testing.T) {
		t.Parallel()
		dbPath := filepath.Join(t.TempDir(), "reopen.db")

		s1, err := New(context.Background(), dbPath)
		if err != nil {
			t.Fatalf("first open: %v", err)
		}
		s1.Close()

		s2, err := New(context.Background(), dbPath)
		if err != nil {
			t.Fatalf("second open: %v", err)
		}
		s2.Close()
	})

	t.Run("invalid path returns error", func(t *testing.T) {
		t.Parallel()
		_, err := New(context.Background(), filepath.Join(os.DevNull, "nonexistent", "metadata.db"))
		if err == nil {
			t.Fatal("expected error for invalid path")
		}
	})
}

func TestInsertGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip preserves every field", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		want := sampleRecord("rust-api")
		if err := s.Insert(ctx, want, false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		got, err := s.Get(ctx, "rust-api")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Get = %+v, want %+v", got, want)
		}
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("dup"), false); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		err := s.Insert(ctx, sampleRecord("dup"), false)
		if !errors.Is(err, template.ErrTemplateExists) {
			t.Errorf("err = %v, want ErrTemplateExists", err)
		}
	})

	t.Run("replace overwrites", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("proj"), false); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		updated := sampleRecord("proj")
		updated.Description = "rebuilt"
		updated.CompressedSize = 4096
		if err := s.Insert(ctx, updated, true); err != nil {
			t.Fatalf("replace insert: %v", err)
		}
		got, err := s.Get(ctx, "proj")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Description != "rebuilt" || got.CompressedSize != 4096 {
			t.Errorf("replace did not take: %+v", got)
		}
	})

	t.Run("empty lists survive the round trip", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		rec := sampleRecord("bare")
		rec.Commands = nil
		rec.Ignore = nil
		if err := s.Insert(ctx, rec, false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		got, err := s.Get(ctx, "bare")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got.Commands) != 0 || len(got.Ignore) != 0 {
			t.Errorf("expected empty lists, got %+v", got)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		_, err := s.Get(ctx, "no-such")
		if !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("err = %v, want ErrTemplateNotFound", err)
		}
	})
}

func TestHas(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	if err := s.Insert(ctx, sampleRecord("present"), false); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ok, err := s.Has(ctx, "present")
	if err != nil || !ok {
		t.Errorf("Has(present) = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.Has(ctx, "absent")
	if err != nil || ok {
		t.Errorf("Has(absent) = %v, %v, want false, nil", ok, err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Insert(ctx, sampleRecord(name), false); err != nil {
			t.Fatalf("Insert(%s): %v", name, err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, r := range recs {
		names = append(names, r.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List order = %v, want %v", names, want)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes existing record", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("gone"), false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := s.Remove(ctx, "gone"); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, err := s.Get(ctx, "gone"); !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("record still present after Remove: %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		err := s.Remove(ctx, "never-was")
		if !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("err = %v, want ErrTemplateNotFound", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("in-place update", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("keep"), false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		rec := sampleRecord("keep")
		rec.Description = "edited"
		rec.Commands = []string{"make"}
		if err := s.Update(ctx, "keep", rec); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := s.Get(ctx, "keep")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Description != "edited" || !reflect.DeepEqual(got.Commands, []string{"make"}) {
			t.Errorf("update did not take: %+v", got)
		}
	})

	t.Run("rename re-keys the record", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("old-name"), false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		rec := sampleRecord("new-name")
		if err := s.Update(ctx, "old-name", rec); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if _, err := s.Get(ctx, "old-name"); !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("old key still resolves: %v", err)
		}
		if _, err := s.Get(ctx, "new-name"); err != nil {
			t.Errorf("new key missing: %v", err)
		}
	})

	t.Run("rename onto existing name is rejected", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("a"), false); err != nil {
			t.Fatalf("Insert a: %v", err)
		}
		if err := s.Insert(ctx, sampleRecord("b"), false); err != nil {
			t.Fatalf("Insert b: %v", err)
		}
		err := s.Update(ctx, "a", sampleRecord("b"))
		if !errors.Is(err, template.ErrTemplateExists) {
			t.Errorf("err = %v, want ErrTemplateExists", err)
		}
		// Both originals must be intact.
		if _, err := s.Get(ctx, "a"); err != nil {
			t.Errorf("record a lost: %v", err)
		}
		if _, err := s.Get(ctx, "b"); err != nil {
			t.Errorf("record b lost: %v", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		err := s.Update(ctx, "ghost", sampleRecord("ghost"))
		if !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("err = %v, want ErrTemplateNotFound", err)
		}
	})
}

func TestTouch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("records usage", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("tool"), false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		when := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		if err := s.Touch(ctx, "tool", when); err != nil {
			t.Fatalf("Touch: %v", err)
		}
		got, err := s.Get(ctx, "tool")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Used == nil || !got.Used.Equal(when) {
			t.Errorf("Used = %v, want %v", got.Used, when)
		}
	})

	t.Run("never rolls backward", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		if err := s.Insert(ctx, sampleRecord("tool"), false); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		later := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
		earlier := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		if err := s.Touch(ctx, "tool", later); err != nil {
			t.Fatalf("Touch later: %v", err)
		}
		if err := s.Touch(ctx, "tool", earlier); err != nil {
			t.Fatalf("Touch earlier: %v", err)
		}
		got, err := s.Get(ctx, "tool")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Used == nil || !got.Used.Equal(later) {
			t.Errorf("Used = %v, want %v", got.Used, later)
		}
	})

	t.Run("unknown name is a no-op", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)
		if err := s.Touch(ctx, "nobody", time.Now()); err != nil {
			t.Errorf("Touch on missing name: %v", err)
		}
	})
}
