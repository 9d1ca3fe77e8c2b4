package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newMiniredis(t)

	cache := NewCache(client, "")
	ctx := context.Background()

	if err := cache.Set(ctx, "stats:licenses:hanoi", []byte(`{"Total":2}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "stats:licenses:hanoi")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"Total":2}` {
		t.Fatalf("unexpected value %s", val)
	}

	if !mr.Exists(DefaultCachePrefix + "stats:licenses:hanoi") {
		t.Fatalf("expected key stored under prefix")
	}
}

func TestCacheMiss(t *testing.T) {
	client, _ := newMiniredis(t)

	_, err := NewCache(client, "t:").Get(context.Background(), "absent")
	if !errors.Is(err, redislib.Nil) {
		t.Fatalf("expected redis.Nil, got %v", err)
	}
}

func TestCacheTTL(t *testing.T) {
	client, mr := newMiniredis(t)

	cache := NewCache(client, "t:")
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 30*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(31 * time.Second)

	if _, err := cache.Get(ctx, "k"); err == nil {
		t.Fatalf("expected key to expire")
	}
}

func TestCacheDeleteMany(t *testing.T) {
	client, _ := newMiniredis(t)

	cache := NewCache(client, "")
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := cache.Delete(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := cache.Delete(ctx); err != nil {
		t.Fatalf("empty delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "a"); err == nil {
		t.Fatalf("expected error getting deleted key")
	}
	if _, err := cache.Get(ctx, "c"); err != nil {
		t.Fatalf("expected c to survive: %v", err)
	}
}
