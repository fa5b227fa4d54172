package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	c.Set("a", "first")
	got, ok := c.Get("a")
	if !ok || got != "first" {
		t.Fatalf("Get(a) = %q, %v; want first, true", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) returned a hit")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	// touch a so b becomes the eviction candidate
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a was evicted despite recent use")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry returned")
	}
	c.Set("b", 2)
	if removed := c.CleanExpired(); removed != 0 {
		t.Fatalf("CleanExpired removed %d fresh entries", removed)
	}
}

func TestLRUPurge(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Fatalf("Size() = %d after Purge, want 0", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("purged entry returned")
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRU[int](4, 5*time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.After(500 * time.Millisecond)
	for c.Size() != 0 {
		select {
		case <-deadline:
			t.Fatal("expired entry never swept")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
