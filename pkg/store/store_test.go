package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/storyreel/reelgraph/pkg/canvas"
	"github.com/storyreel/reelgraph/pkg/node"
)

// storeUnderTest exercises the Store contract against any backend.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	doc := canvas.Document{
		ID:   "c1",
		Name: "opening",
		Nodes: []node.Node{
			{ID: "b", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorAppend},
			{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		},
	}

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("EmptyID", func(t *testing.T) {
		if _, err := s.Get(ctx, ""); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Get(\"\") error = %v, want ErrInvalidID", err)
		}
		if err := s.Put(ctx, canvas.Document{}); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Put(no id) error = %v, want ErrInvalidID", err)
		}
		if err := s.Delete(ctx, ""); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Delete(\"\") error = %v, want ErrInvalidID", err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Hash() != doc.Hash() {
			t.Error("stored document hash differs from original")
		}
	})

	t.Run("List", func(t *testing.T) {
		second := canvas.Document{ID: "a0", Name: "second"}
		if err := s.Put(ctx, second); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		infos, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(infos) != 2 {
			t.Fatalf("List() returned %d entries, want 2", len(infos))
		}
		if infos[0].ID != "a0" || infos[1].ID != "c1" {
			t.Errorf("List() order = [%s %s], want [a0 c1]", infos[0].ID, infos[1].ID)
		}
		if infos[1].NodeCount != 2 {
			t.Errorf("c1 node count = %d, want 2", infos[1].NodeCount)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		edited := doc
		edited.Name = "reopening"
		edited.Nodes = doc.Nodes[:1]
		if err := s.Put(ctx, edited); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != "reopening" || len(got.Nodes) != 1 {
			t.Errorf("replace did not take: %+v", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "c1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, "c1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}
		// Deleting again is not an error.
		if err := s.Delete(ctx, "c1"); err != nil {
			t.Errorf("Delete(missing) error = %v, want nil", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	storeUnderTest(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()
	storeUnderTest(t, s)
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, canvas.Document{ID: "good"}); err != nil {
		t.Fatal(err)
	}
	// Non-JSON and malformed files must not break listing.
	writeFileOrFatal(t, dir, "readme.txt", "notes")
	writeFileOrFatal(t, dir, "broken.json", "{nope")

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "good" {
		t.Errorf("List() = %v, want only [good]", infos)
	}
}

func writeFileOrFatal(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}
