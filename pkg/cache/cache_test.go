package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"skydrift/pkg/db"
)

func newTestCache(t *testing.T, ttl time.Duration) *SQLiteCache {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewSQLiteCache(d, ttl)
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, hit := c.GetCache(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.SetCache(ctx, "k", []byte("payload")); err != nil {
		t.Fatalf("SetCache: %v", err)
	}

	val, hit := c.GetCache(ctx, "k")
	if !hit {
		t.Fatal("expected hit")
	}
	if string(val) != "payload" {
		t.Errorf("val = %q, want %q", val, "payload")
	}
}

func TestExpiry(t *testing.T) {
	c := newTestCache(t, -time.Second) // Already expired on write
	ctx := context.Background()

	if err := c.SetCache(ctx, "k", []byte("payload")); err != nil {
		t.Fatalf("SetCache: %v", err)
	}

	if _, hit := c.GetCache(ctx, "k"); hit {
		t.Error("expected expired entry to miss")
	}
}

func TestOverwrite(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.SetCache(ctx, "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := c.SetCache(ctx, "k", []byte("two")); err != nil {
		t.Fatal(err)
	}

	val, hit := c.GetCache(ctx, "k")
	if !hit || string(val) != "two" {
		t.Errorf("val = %q, hit = %v, want %q", val, hit, "two")
	}
}

func TestNullCache(t *testing.T) {
	var c Cacher = NullCache{}
	ctx := context.Background()

	if err := c.SetCache(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, hit := c.GetCache(ctx, "k"); hit {
		t.Error("NullCache must never hit")
	}
}
