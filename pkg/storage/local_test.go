package storage

import (
	"context"
	"errors"
	"testing"
)

func TestLocalStorageReadWrite(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	ctx := context.Background()

	content := []byte("id: p1\nname: Apollo\n")
	if err := s.Write(ctx, "projects/p1.yaml", content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := s.Read(ctx, "projects/p1.yaml")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("got %q, want %q", got, content)
	}
}

func TestLocalStorageReadNotFound(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	_, err = s.Read(context.Background(), "projects/missing.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLocalStorageOverwrite(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "k.yaml", []byte("v1")); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := s.Write(ctx, "k.yaml", []byte("v2")); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	got, err := s.Read(ctx, "k.yaml")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("got %q, want v2", got)
	}
}

func TestLocalStorageListScopedToPrefix(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	ctx := context.Background()

	for _, path := range []string{"tasks/t1.yaml", "tasks/t2.yaml", "projects/p1.yaml"} {
		if err := s.Write(ctx, path, []byte("x")); err != nil {
			t.Fatalf("Write %s failed: %v", path, err)
		}
	}

	paths, err := s.List(ctx, "tasks")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	for _, p := range paths {
		if p != "tasks/t1.yaml" && p != "tasks/t2.yaml" {
			t.Errorf("unexpected path %s", p)
		}
	}
}

func TestLocalStorageListEmptyPrefix(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	paths, err := s.List(context.Background(), "nothing-here")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("got %v, want no paths", paths)
	}
}

func TestLocalStorageDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "k.yaml", []byte("v")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Delete(ctx, "k.yaml"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := s.Exists(ctx, "k.yaml")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("file still exists after Delete")
	}
	if err := s.Delete(ctx, "k.yaml"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
