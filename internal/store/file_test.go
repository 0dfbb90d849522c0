package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"internwatch/internal/domain"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "seen.json"))
	ids, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "seen.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	want := []string{"b", "a", "c"}
	if err := fs.Persist(ctx, want); err != nil {
		t.Fatalf("Persist error: %v", err)
	}
	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreWritesFlatArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := NewFileStore(path).Persist(context.Background(), nil); err != nil {
		t.Fatalf("Persist error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]" {
		t.Fatalf("file = %q, want []", b)
	}
}

func TestFileStoreCorruptFileReportsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
