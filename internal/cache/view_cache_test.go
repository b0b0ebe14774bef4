package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCache(client, ttl), mr
}

func TestViewCacheRoundTripKeepsDates(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if got, err := c.GetOpen(ctx); err != nil || got != nil {
		t.Fatalf("expected miss, got %v, %v", got, err)
	}

	due := duedate.MustParseDate("2026-03-14")
	list := []dom.TaskView{{
		Task:        dom.Task{ID: "t1", Title: "Write code", Status: dom.StatusInProgress, DueDate: &due, SortOrder: 3},
		ProjectID:   "p1",
		ProjectName: "Launch",
		SectionName: "To Do",
	}}
	if err := c.SetOpen(ctx, list); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.GetOpen(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" || got[0].ProjectName != "Launch" {
		t.Fatalf("unexpected list: %#v", got)
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(due) {
		t.Fatalf("due date lost: %v", got[0].DueDate)
	}
	if ttl := mr.TTL(keyOpen); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}
}

func TestViewCacheEmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.SetActive(ctx, nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.GetActive(ctx)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty hit, got %#v, %v", got, err)
	}
}

func TestViewCacheInvalidateAll(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	list := []dom.TaskView{{Task: dom.Task{ID: "t1"}}}

	_ = c.SetOpen(ctx, list)
	_ = c.SetActive(ctx, list)
	_ = c.SetSearch(ctx, "  Report ", list)
	if !mr.Exists(keySearch + "report") {
		t.Fatal("expected normalized search key")
	}

	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	for _, key := range []string{keyOpen, keyActive, keySearch + "report"} {
		if mr.Exists(key) {
			t.Fatalf("key %s survived invalidation", key)
		}
	}
}

func TestViewCacheZeroTTLDisablesWrites(t *testing.T) {
	c, mr := newTestCache(t, 0)
	if err := c.SetOpen(context.Background(), []dom.TaskView{{Task: dom.Task{ID: "t1"}}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mr.Exists(keyOpen) {
		t.Fatal("nothing should be written with zero TTL")
	}
}

func TestViewCacheDropsCorruptEntries(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	if err := mr.Set(keyOpen, "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := c.GetOpen(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
	if mr.Exists(keyOpen) {
		t.Fatal("corrupt entry should be removed")
	}
}

func TestNormalizeQuery(t *testing.T) {
	if got := NormalizeQuery("  MiXed "); got != "mixed" {
		t.Fatalf("got %q", got)
	}
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'é'
	}
	if got := []rune(NormalizeQuery(string(long))); !reflect.DeepEqual(len(got), maxQueryKeyLen) {
		t.Fatalf("len = %d", len(got))
	}
}
