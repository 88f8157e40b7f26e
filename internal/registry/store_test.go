package registry

import (
	"path/filepath"
	"testing"
	"time"
)

func TestPutGetNormalizes(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "registry.json"))

	s.Put(Project{ID: "  cafe-x-1  ", Timestamp: time.Now(), ProjectPath: "data/projects/cafe-x-1"})

	p, ok := s.Get("cafe-x-1")
	if !ok {
		t.Fatal("expected project to be stored")
	}
	if p.ID != "cafe-x-1" {
		t.Fatalf("id = %q, want trimmed", p.ID)
	}
	if p.Pages == nil || p.Components == nil || p.Configs == nil || p.Assets == nil {
		t.Fatal("nil slices must normalize to empty")
	}

	if _, ok := s.Get("missing"); ok {
		t.Fatal("unexpected hit for missing project")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "registry.json"))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Put(Project{ID: "old", Timestamp: base})
	s.Put(Project{ID: "new", Timestamp: base.Add(time.Hour)})
	s.Put(Project{ID: "mid", Timestamp: base.Add(time.Minute)})

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("List()[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	s := New(path)
	s.Put(Project{
		ID:         "cafe-x-1",
		Pages:      []string{"home.tsx"},
		Components: []string{"Layout.tsx"},
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	s.Save()

	reloaded := New(path)
	reloaded.EnsureLoaded()
	p, ok := reloaded.Get("cafe-x-1")
	if !ok {
		t.Fatal("expected record after reload")
	}
	if len(p.Pages) != 1 || p.Pages[0] != "home.tsx" {
		t.Fatalf("pages = %v", p.Pages)
	}
}

func TestDelete(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "registry.json"))
	s.Put(Project{ID: "cafe-x-1", Timestamp: time.Now()})

	s.Delete("cafe-x-1")
	if _, ok := s.Get("cafe-x-1"); ok {
		t.Fatal("expected record to be gone")
	}

	// unknown and blank ids are no-ops
	s.Delete("missing")
	s.Delete("  ")
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	s.EnsureLoaded()
	s.Save()
	s.Put(Project{ID: "x"})
	s.Delete("x")
	if _, ok := s.Get("x"); ok {
		t.Fatal("nil store must miss")
	}
	if got := s.List(); got != nil {
		t.Fatalf("List on nil store = %v", got)
	}
}
