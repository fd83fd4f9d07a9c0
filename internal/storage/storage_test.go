package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	if _, err := s.Get("savedShapes"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty slot err = %v", err)
	}
	if err := s.Set("savedShapes", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("savedShapes", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get("savedShapes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Fatalf("got %q", got)
	}
	for _, bad := range []string{"", "..", "a/b", "../x"} {
		if err := s.Set(bad, nil); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) err = %v", bad, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exercise(t, s)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "savedShapes.json" {
		t.Fatalf("unexpected files %v", entries)
	}
}

func TestDefaultDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("default dir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-data", "drawpad") {
		t.Fatalf("dir %q", dir)
	}
}
