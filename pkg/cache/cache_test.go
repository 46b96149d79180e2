package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestArtifactKey(t *testing.T) {
	key := ArtifactKey("abc123", "svg")
	if key != "artifact:svg:abc123" {
		t.Errorf("ArtifactKey() = %q", key)
	}
	if ArtifactKey("abc123", "png") == key {
		t.Error("different formats share a key")
	}
	if !strings.Contains(key, "abc123") {
		t.Error("key does not embed the canvas hash")
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	t.Run("MissOnEmpty", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "nope")
		if err != nil || hit {
			t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		want := []byte("<svg/>")
		if err := c.Set(ctx, "k1", want, TTLArtifact); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, hit, err := c.Get(ctx, "k1")
		if err != nil || !hit {
			t.Fatalf("Get() = hit %v, err %v, want hit", hit, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get() = %q, want %q", got, want)
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry served as a hit")
		}
	})

	t.Run("ZeroTTLNeverExpires", func(t *testing.T) {
		if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
		if _, hit, _ := c.Get(ctx, "forever"); !hit {
			t.Error("zero-TTL entry missing")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "gone", []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted entry served as a hit")
		}
		// Deleting a missing key is not an error.
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() = hit %v, err %v, want always-miss", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestHash(t *testing.T) {
	a, b := Hash([]byte("one")), Hash([]byte("two"))
	if a == b {
		t.Error("distinct inputs share a hash")
	}
	if a != Hash([]byte("one")) {
		t.Error("hash is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
