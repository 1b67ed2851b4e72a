package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	return s, dir
}

func TestPutWritesRouteBelowRoot(t *testing.T) {
	s, dir := newTestStore(t)

	written, err := s.Put(context.Background(), "/assets/app.css", []byte("body{color:red}"))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	want := filepath.Join(dir, "assets", "app.css")
	if written != want {
		t.Fatalf("unexpected file path: got %s want %s", written, want)
	}

	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(content) != "body{color:red}" {
		t.Fatalf("unexpected content: %s", content)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "assets", ".resave-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestPutReplacesPreviousContent(t *testing.T) {
	s, dir := newTestStore(t)

	if _, err := s.Put(context.Background(), "/app.js", []byte("old")); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	if _, err := s.Put(context.Background(), "/app.js", []byte("new")); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "app.js"))
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(content) != "new" {
		t.Fatalf("expected second write to win, got %s", content)
	}
}

func TestPutRejectsUnmappableRoutes(t *testing.T) {
	s, _ := newTestStore(t)

	for _, route := range []string{"", "/", "/..", "/../.."} {
		if _, err := s.Put(context.Background(), route, []byte("x")); !errors.Is(err, ErrInvalidRoute) {
			t.Fatalf("route %q: expected ErrInvalidRoute, got %v", route, err)
		}
	}
}

func TestPutCollapsesDotDotSegments(t *testing.T) {
	s, dir := newTestStore(t)

	written, err := s.Put(context.Background(), "/../escape.css", []byte("x"))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if written != filepath.Join(dir, "escape.css") {
		t.Fatalf("expected route to stay below root, got %s", written)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.css")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file escaped the store root")
	}
}

func TestPutHonoursContextCancellation(t *testing.T) {
	s, dir := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Put(ctx, "/late.css", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "late.css")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cancelled put should not write a file")
	}
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestNewDoesNotCreateRoot(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "not-yet")

	s, err := New(missing)
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	if _, err := os.Stat(missing); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("constructing a store should not create the root")
	}

	if _, err := s.Put(context.Background(), "/a.css", []byte("x")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(missing, "a.css")); err != nil {
		t.Fatalf("expected root to be created on first put: %v", err)
	}
}
