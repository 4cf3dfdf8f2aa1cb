package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gbxml-service/internal/converter/gbxml"
)

func TestWriteSpace(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	fs := NewFileStorage(root)

	path, err := fs.WriteSpace(context.Background(), "Tower A", "Room 1", gbxml.New())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "Tower A", "Room 1.xml"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := gbxml.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Campus.ID != "Campus-1" {
		t.Fatalf("campus id = %q", doc.Campus.ID)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file left behind")
	}
}

func TestWriteSpaceOverwrites(t *testing.T) {
	fs := NewFileStorage(t.TempDir())
	ctx := context.Background()

	doc := gbxml.New()
	if _, err := fs.WriteSpace(ctx, "p", "s", doc); err != nil {
		t.Fatal(err)
	}
	doc.Campus.ID = "Campus-2"
	path, err := fs.WriteSpace(ctx, "p", "s", doc)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := gbxml.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got.Campus.ID != "Campus-2" {
		t.Fatalf("campus id = %q, want Campus-2", got.Campus.ID)
	}
}

func TestWriteSpaceRejects(t *testing.T) {
	fs := NewFileStorage(t.TempDir())
	if _, err := fs.WriteSpace(context.Background(), "p", "  ", gbxml.New()); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := fs.WriteSpace(context.Background(), "p", "s", nil); !errors.Is(err, gbxml.ErrEmptyDocument) {
		t.Fatalf("nil doc err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fs.WriteSpace(ctx, "p", "s", gbxml.New()); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled err = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"Room 1":     "Room 1",
		"../escape":  ".._escape",
		"a/b\\c":     "a_b_c",
		"":           "fallback",
		"..":         "fallback",
		" trimmed  ": "trimmed",
	}
	for in, want := range tests {
		if got := sanitize(in, "fallback"); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey([]byte("body"), []byte("full"))
	b := CacheKey([]byte("body"), []byte("full"))
	c := CacheKey([]byte("bodyf"), []byte("ull"))
	if a != b {
		t.Fatal("equal inputs hash differently")
	}
	if a == c {
		t.Fatal("part boundaries do not affect the key")
	}
	if len(a) != 64 {
		t.Fatalf("key length = %d", len(a))
	}
}
