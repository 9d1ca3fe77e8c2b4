package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_ClaimsNewKey(t *testing.T) {
	client, mr := newMiniredis(t)
	store := NewIdempotencyStore(client)

	exists, resp, err := store.CheckAndSet(context.Background(), "0xabc:POST:/api/v1/licenses:k1", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := mr.Get(DefaultIdempotencyPrefix + "0xabc:POST:/api/v1/licenses:k1")
	if err != nil || val != pendingMarker {
		t.Fatalf("expected pending marker, got val=%q err=%v", val, err)
	}
	if ttl := mr.TTL(DefaultIdempotencyPrefix + "0xabc:POST:/api/v1/licenses:k1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
}

func TestIdempotencyStore_ReturnsHeldValue(t *testing.T) {
	client, mr := newMiniredis(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "k", nil, time.Minute); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "k", nil, time.Minute)
	if err != nil || !exists || string(resp) != pendingMarker {
		t.Fatalf("expected pending key, got exists=%v resp=%q err=%v", exists, resp, err)
	}

	if err := store.Update(ctx, "k", []byte(`{"status":201}`), time.Hour); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, resp, err = store.CheckAndSet(ctx, "k", nil, time.Minute)
	if err != nil || !exists || string(resp) != `{"status":201}` {
		t.Fatalf("expected stored response, got exists=%v resp=%q err=%v", exists, resp, err)
	}
	if ttl := mr.TTL(DefaultIdempotencyPrefix + "k"); ttl != time.Hour {
		t.Fatalf("update should keep its own ttl, got %v", ttl)
	}
}

func TestIdempotencyStore_ReclaimsReleasedKey(t *testing.T) {
	client, mr := newMiniredis(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := store.Update(ctx, "k", []byte{}, time.Second); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "k", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("released key should be claimable, got exists=%v resp=%q err=%v", exists, resp, err)
	}

	val, _ := mr.Get(DefaultIdempotencyPrefix + "k")
	if val != pendingMarker {
		t.Fatalf("expected pending marker after reclaim, got %q", val)
	}
}

func TestIdempotencyStore_ExpiredKeyIsFree(t *testing.T) {
	client, mr := newMiniredis(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "k", nil, time.Second); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "k", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expired key should be claimable, got exists=%v err=%v", exists, err)
	}
}

func TestIdempotencyStore_RedisDown(t *testing.T) {
	client, mr := newMiniredis(t)
	store := NewIdempotencyStore(client)
	mr.Close()

	if _, _, err := store.CheckAndSet(context.Background(), "k", nil, time.Minute); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}
