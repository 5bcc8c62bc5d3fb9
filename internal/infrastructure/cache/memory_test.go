package cache

import (
	"context"
	"testing"
	"time"
)

func newTestMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(0) // no janitor; tests exercise lazy expiry
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "movies:id:abc", []byte(`{"title":"X"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "movies:id:abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"title":"X"}` {
		t.Errorf("Get = %q, want %q", got, `{"title":"X"}`)
	}
}

func TestMemoryCache_Get_Miss(t *testing.T) {
	c := newTestMemoryCache(t)

	got, err := c.Get(context.Background(), "movies:id:absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %q", got)
	}
}

func TestMemoryCache_Get_Expired(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "movies:all:page=1", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	got, err := c.Get(ctx, "movies:all:page=1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expired entry returned: %q", got)
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped lazily, Len = %d", c.Len())
	}
}

func TestMemoryCache_Set_ResetsExpiry(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("old"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("new"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get = %q, want %q after overwrite", got, "new")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := c.Get(ctx, "k"); got != nil {
		t.Errorf("deleted entry returned: %q", got)
	}

	// Deleting an absent key is a no-op.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	entries := map[string]string{
		PrefixAllMovies + "page=1": "listing",
		PrefixSearch + "q=drama":   "search",
		PrefixSorted + "by=rating": "sorted",
		PrefixMovie + "some-id":    "single",
	}
	for k, v := range entries {
		if err := c.Set(ctx, k, []byte(v), time.Minute); err != nil {
			t.Fatalf("Set(%q) failed: %v", k, err)
		}
	}

	if err := c.DeleteByPrefix(ctx, ListCategories()...); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	for _, k := range []string{PrefixAllMovies + "page=1", PrefixSearch + "q=drama", PrefixSorted + "by=rating"} {
		if got, _ := c.Get(ctx, k); got != nil {
			t.Errorf("category entry %q survived bulk invalidation", k)
		}
	}

	// Single-movie entries are outside the invalidated categories.
	got, err := c.Get(ctx, PrefixMovie+"some-id")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "single" {
		t.Errorf("single-movie entry removed by category invalidation")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestMemoryCache_JanitorSweepsExpired(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	deadline := time.After(time.Second)
	for c.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not sweep expired entry within 1s")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
