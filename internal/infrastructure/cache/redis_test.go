package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)
	t.Cleanup(func() {
		c.Close()
		mr.Close()
	})

	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupTestRedis(t)
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

func TestRedisCache_Get_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), "movies:id:absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %q", got)
	}
}

func TestRedisCache_Get_Expired(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expired entry returned: %q", got)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c, _ := setupTestRedis(t)
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

	got, err := c.Get(ctx, PrefixMovie+"some-id")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "single" {
		t.Errorf("single-movie entry removed by category invalidation")
	}
}

func TestRedisCache_Clear(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if got, _ := c.Get(ctx, k); got != nil {
			t.Errorf("entry %q survived Clear", k)
		}
	}
}
