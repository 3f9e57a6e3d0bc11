package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// fakeClock makes every call to now return a strictly later time.
func fakeClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	orig := now
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = orig })
}

func record(id, code string) *Record {
	return &Record{ID: id, Title: "Doc " + id, Code: code, Document: flowchart.Parse(code).Doc}
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t)
		rec, err := s.Get(ctx, "missing")
		if err != nil || rec != nil {
			t.Errorf("Get(missing) = %v, %v; want nil, nil", rec, err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		fakeClock(t)
		s := open(t)
		in := record("a", "flowchart LR\n  A --> B")
		if err := s.Put(ctx, in); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "a")
		if err != nil || got == nil {
			t.Fatalf("Get = %v, %v", got, err)
		}
		if got.Code != in.Code || got.Title != in.Title {
			t.Errorf("record = %+v", got)
		}
		if diff := cmp.Diff(in.Document.Nodes, got.Document.Nodes); diff != "" {
			t.Errorf("nodes mismatch (-want +got):\n%s", diff)
		}
		if got.CreatedAt.IsZero() || !got.UpdatedAt.Equal(got.CreatedAt) {
			t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("PutKeepsCreatedAt", func(t *testing.T) {
		fakeClock(t)
		s := open(t)
		if err := s.Put(ctx, record("a", "flowchart TD")); err != nil {
			t.Fatal(err)
		}
		first, _ := s.Get(ctx, "a")
		if err := s.Put(ctx, record("a", "flowchart LR")); err != nil {
			t.Fatal(err)
		}
		second, _ := s.Get(ctx, "a")
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
		if !second.UpdatedAt.After(first.UpdatedAt) {
			t.Errorf("UpdatedAt not advanced: %v -> %v", first.UpdatedAt, second.UpdatedAt)
		}
		if second.Code != "flowchart LR" {
			t.Errorf("code = %q", second.Code)
		}
	})

	t.Run("PutInvalid", func(t *testing.T) {
		s := open(t)
		for _, rec := range []*Record{nil, {ID: ""}, {ID: "../etc"}} {
			if err := s.Put(ctx, rec); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Put(%+v) = %v, want INVALID_INPUT", rec, err)
			}
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		fakeClock(t)
		s := open(t)
		for _, id := range []string{"one", "two", "three"} {
			if err := s.Put(ctx, record(id, "flowchart TD")); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Put(ctx, record("one", "flowchart TD\n  A")); err != nil {
			t.Fatal(err)
		}
		recs, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var ids []string
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		if diff := cmp.Diff([]string{"one", "three", "two"}, ids); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("DeleteRemovesHistory", func(t *testing.T) {
		s := open(t)
		if err := s.Put(ctx, record("a", "flowchart TD")); err != nil {
			t.Fatal(err)
		}
		if _, err := s.AddSnapshot(ctx, "a", "flowchart TD"); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "a"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec, _ := s.Get(ctx, "a"); rec != nil {
			t.Errorf("record still present")
		}
		if snaps, _ := s.Snapshots(ctx, "a"); len(snaps) != 0 {
			t.Errorf("history = %d entries after delete", len(snaps))
		}
		if err := s.Delete(ctx, "a"); err != nil {
			t.Errorf("second Delete: %v", err)
		}
	})

	t.Run("SnapshotDedup", func(t *testing.T) {
		s := open(t)
		steps := []struct {
			code string
			want bool
		}{
			{"flowchart TD", true},
			{"flowchart TD", false},
			{"flowchart LR", true},
			{"flowchart TD", true},
		}
		for i, step := range steps {
			added, err := s.AddSnapshot(ctx, "doc", step.code)
			if err != nil {
				t.Fatalf("AddSnapshot #%d: %v", i, err)
			}
			if added != step.want {
				t.Errorf("AddSnapshot #%d (%q) = %v, want %v", i, step.code, added, step.want)
			}
		}
		snaps, _ := s.Snapshots(ctx, "doc")
		if len(snaps) != 3 {
			t.Fatalf("history = %d entries, want 3", len(snaps))
		}
		if snaps[0].DocumentID != "doc" || snaps[2].Code != "flowchart TD" {
			t.Errorf("history = %+v", snaps)
		}
	})

	t.Run("SnapshotCap", func(t *testing.T) {
		fakeClock(t)
		s := open(t)
		for i := 0; i < MaxSnapshots+7; i++ {
			if _, err := s.AddSnapshot(ctx, "doc", fmt.Sprintf("flowchart TD\n  N%d", i)); err != nil {
				t.Fatal(err)
			}
		}
		snaps, err := s.Snapshots(ctx, "doc")
		if err != nil {
			t.Fatal(err)
		}
		if len(snaps) != MaxSnapshots {
			t.Fatalf("history = %d entries, want %d", len(snaps), MaxSnapshots)
		}
		if snaps[0].Code != "flowchart TD\n  N7" {
			t.Errorf("oldest = %q, want N7", snaps[0].Code)
		}
		if last := snaps[len(snaps)-1].Code; last != fmt.Sprintf("flowchart TD\n  N%d", MaxSnapshots+6) {
			t.Errorf("newest = %q", last)
		}
		for i := 1; i < len(snaps); i++ {
			if snaps[i].Timestamp.Before(snaps[i-1].Timestamp) {
				t.Fatalf("history not oldest first at %d", i)
			}
		}
	})

	t.Run("ClearHistory", func(t *testing.T) {
		s := open(t)
		_, _ = s.AddSnapshot(ctx, "doc", "flowchart TD")
		_, _ = s.AddSnapshot(ctx, "other", "flowchart TD")
		if err := s.ClearHistory(ctx, "doc"); err != nil {
			t.Fatalf("ClearHistory: %v", err)
		}
		if snaps, _ := s.Snapshots(ctx, "doc"); len(snaps) != 0 {
			t.Errorf("doc history = %d entries", len(snaps))
		}
		if snaps, _ := s.Snapshots(ctx, "other"); len(snaps) != 1 {
			t.Errorf("other history = %d entries, want 1", len(snaps))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestFileStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		return s
	})
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := record("a", "flowchart TD\n  A --> B")
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Document.Nodes[0].Label = "mutated"

	got, _ := s.Get(ctx, "a")
	got.Document.Nodes[1].Label = "mutated too"

	again, _ := s.Get(ctx, "a")
	for _, n := range again.Document.Nodes {
		if n.Label != n.ID {
			t.Errorf("stored node %s label = %q", n.ID, n.Label)
		}
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, record("kept", "flowchart TD")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSnapshot(ctx, "kept", "flowchart TD"); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if rec, _ := reopened.Get(ctx, "kept"); rec == nil || rec.Document.Direction != diagram.DirectionTD {
		t.Errorf("Get after reopen = %+v", rec)
	}
	if snaps, _ := reopened.Snapshots(ctx, "kept"); len(snaps) != 1 {
		t.Errorf("history after reopen = %d entries", len(snaps))
	}
	if reopened.Path() != dir {
		t.Errorf("Path() = %q", reopened.Path())
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("memory backend = %T", s)
	}

	s, err = New(ctx, config.StoreConfig{Backend: config.BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("file backend = %T", s)
	}

	if _, err := New(ctx, config.StoreConfig{Backend: "tape"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend = %v", err)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Errorf("NewID returned %q twice", a)
	}
	if err := errors.ValidateDocumentID(a); err != nil {
		t.Errorf("NewID() = %q is not a valid id: %v", a, err)
	}
}
