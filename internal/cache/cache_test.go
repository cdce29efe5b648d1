package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGetRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatalf("expected key to be found")
	}
	if string(got) != "payload" {
		t.Errorf("got %q, want %q", got, "payload")
	}
}

func TestMemoryCache_MissReturnsNotFound(t *testing.T) {
	c := NewMemoryCache()
	_, found, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Errorf("expected miss for unset key")
	}
}

func TestMemoryCache_ExpiredEntryIsNotFound(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("payload"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Errorf("expected expired entry to be treated as a miss")
	}
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Errorf("expected zero-ttl entry to still be present")
	}
}
