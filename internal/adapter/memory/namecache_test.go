package memory

import (
	"testing"
	"time"
)

func TestNameCachePutGet(t *testing.T) {
	c := NewNameCache(time.Hour)

	if _, ok := c.Get("U1"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Put("U1", "Test User")
	name, ok := c.Get("U1")
	if !ok || name != "Test User" {
		t.Fatalf("Get = (%q, %v), want (Test User, true)", name, ok)
	}
}

func TestNameCacheExpiry(t *testing.T) {
	c := NewNameCache(time.Minute)
	now := time.Unix(1617984000, 0)
	c.now = func() time.Time { return now }

	c.Put("U1", "Test User")

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("U1"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("U1"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestNameCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewNameCache(0)
	now := time.Unix(1617984000, 0)
	c.now = func() time.Time { return now }

	c.Put("U1", "Test User")
	now = now.Add(24 * time.Hour)
	if _, ok := c.Get("U1"); !ok {
		t.Fatal("zero ttl should mean no expiry")
	}
}
