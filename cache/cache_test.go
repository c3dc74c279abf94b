package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return c
}

func TestCache_StoreAndLookup(t *testing.T) {
	c := openTestCache(t)

	e, err := c.Lookup("example.com/containers", "List")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e != nil {
		t.Fatalf("Lookup() on empty cache = %+v, want nil", e)
	}

	stamp := time.Now().Truncate(time.Second)
	stored := &Entry{
		PkgPath:  "example.com/containers",
		TypeName: "List",
		Digest:   "abc",
		Kind:     "vec",
		Output:   "/tmp/list_lit.go",
		Version:  "(devel)",
		Run:      "0198ec2d-0000-7000-8000-000000000000",
		Stamp:    stamp,
	}
	if err := c.Store(stored); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	e, err = c.Lookup("example.com/containers", "List")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e == nil {
		t.Fatal("Lookup() after Store() = nil")
	}
	if e.Digest != "abc" || e.Kind != "vec" || e.Output != "/tmp/list_lit.go" || e.Version != "(devel)" || e.Run != stored.Run {
		t.Errorf("Lookup() = %+v, does not match stored entry", e)
	}
	if !e.Stamp.Equal(stamp) {
		t.Errorf("Lookup() stamp = %v, want %v", e.Stamp, stamp)
	}

	// same type again replaces the entry
	stored.Digest = "def"
	if err := c.Store(stored); err != nil {
		t.Fatalf("Store() replace error = %v", err)
	}
	e, err = c.Lookup("example.com/containers", "List")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e.Digest != "def" {
		t.Errorf("Lookup() digest after replace = %q, want def", e.Digest)
	}
}

func TestCache_List(t *testing.T) {
	c := openTestCache(t)

	for _, e := range []Entry{
		{PkgPath: "b", TypeName: "Z", Digest: "1", Kind: "vec", Output: "z", Version: "v"},
		{PkgPath: "a", TypeName: "B", Digest: "2", Kind: "set", Output: "b", Version: "v"},
		{PkgPath: "a", TypeName: "A", Digest: "3", Kind: "map", Output: "a", Version: "v"},
	} {
		if err := c.Store(&e); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	for i, want := range []string{"a.A", "a.B", "b.Z"} {
		if got := entries[i].PkgPath + "." + entries[i].TypeName; got != want {
			t.Errorf("List() entry %d = %s, want %s", i, got, want)
		}
	}
}

func TestCache_Prune(t *testing.T) {
	c := openTestCache(t)

	tmpDir := t.TempDir()
	kept := filepath.Join(tmpDir, "kept_lit.go")
	if err := os.WriteFile(kept, []byte("package x"), 0644); err != nil {
		t.Fatalf("failed to write output file: %v", err)
	}

	for _, e := range []Entry{
		{PkgPath: "a", TypeName: "Kept", Digest: "1", Kind: "vec", Output: kept, Version: "v"},
		{PkgPath: "a", TypeName: "Gone", Digest: "2", Kind: "vec", Output: filepath.Join(tmpDir, "gone_lit.go"), Version: "v"},
	} {
		if err := c.Store(&e); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d entries, want 1", removed)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].TypeName != "Kept" {
		t.Errorf("List() after prune = %+v, want only Kept", entries)
	}
}

func TestCache_Reset(t *testing.T) {
	c := openTestCache(t)

	if err := c.Store(&Entry{PkgPath: "a", TypeName: "A", Digest: "1", Kind: "vec", Output: "a", Version: "v"}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() after reset returned %d entries, want 0", len(entries))
	}
}

func TestCache_NilSafe(t *testing.T) {
	var c *Cache

	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil cache error = %v", err)
	}
	if err := c.Store(&Entry{}); err != nil {
		t.Errorf("Store() on nil cache error = %v", err)
	}
	if e, err := c.Lookup("a", "A"); err != nil || e != nil {
		t.Errorf("Lookup() on nil cache = %+v, %v", e, err)
	}
	if entries, err := c.List(); err != nil || entries != nil {
		t.Errorf("List() on nil cache = %+v, %v", entries, err)
	}
	if err := c.Reset(); err != nil {
		t.Errorf("Reset() on nil cache error = %v", err)
	}
}

func TestDigest(t *testing.T) {
	if Digest([]byte("a"), []byte("b")) != Digest([]byte("a"), []byte("b")) {
		t.Error("Digest() is not deterministic")
	}
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Error("Digest() produced the same hash for different inputs")
	}
	if len(Digest()) != 64 {
		t.Errorf("Digest() length = %d, want 64 hex characters", len(Digest()))
	}
}
