package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheHelper(client, "test")
}

func TestSetGetDelete(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()
	key := helper.Key("item", "1")

	if err := helper.Set(ctx, key, payload{ID: 1, Name: "one"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	found, err := helper.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.ID != 1 || got.Name != "one" {
		t.Errorf("got found=%v %+v, want the cached payload", found, got)
	}

	if err := helper.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, err = helper.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if found {
		t.Error("deleted key still found")
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()
	key := helper.Key("item", "2")

	executions := 0
	load := func() (any, error) {
		executions++
		return payload{ID: 2, Name: "two"}, nil
	}

	var first payload
	if err := helper.CacheOrExecute(ctx, key, &first, time.Minute, load); err != nil {
		t.Fatalf("first CacheOrExecute: %v", err)
	}
	var second payload
	if err := helper.CacheOrExecute(ctx, key, &second, time.Minute, load); err != nil {
		t.Fatalf("second CacheOrExecute: %v", err)
	}

	if executions != 1 {
		t.Errorf("execute ran %d times, want 1", executions)
	}
	if second != first {
		t.Errorf("cached read %+v differs from fresh read %+v", second, first)
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test")
	ctx := context.Background()

	executions := 0
	var got payload
	err := helper.CacheOrExecute(ctx, helper.Key("x"), &got, time.Minute, func() (any, error) {
		executions++
		return payload{ID: 3, Name: "three"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	if got.ID != 3 || executions != 1 {
		t.Errorf("got %+v after %d executions, want fresh value", got, executions)
	}

	if err := helper.Set(ctx, "k", payload{}, time.Minute); err != nil {
		t.Errorf("Set with nil client: %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete with nil client: %v", err)
	}
}
