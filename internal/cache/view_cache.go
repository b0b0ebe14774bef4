package cache

import (
	"context"
	"strings"
	"time"

	dom "github.com/josh-kartchner/traction/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	keyOpen   = "views:open"
	keyActive = "views:active"
	keySearch = "views:search:"

	maxQueryKeyLen = 100
)

// ViewCache caches the raw task lists behind the my-tasks, report and search
// views. Bucketing happens after a read, so entries do not depend on the date.
type ViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewViewCache returns a new ViewCache.
func NewViewCache(rdb *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{rdb: rdb, ttl: ttl}
}

// GetOpen returns the cached open-task list or nil on a miss.
func (c *ViewCache) GetOpen(ctx context.Context) ([]dom.TaskView, error) {
	return c.get(ctx, keyOpen)
}

func (c *ViewCache) SetOpen(ctx context.Context, list []dom.TaskView) error {
	return c.set(ctx, keyOpen, list)
}

// GetActive returns the cached list of tasks in active projects or nil on a miss.
func (c *ViewCache) GetActive(ctx context.Context) ([]dom.TaskView, error) {
	return c.get(ctx, keyActive)
}

func (c *ViewCache) SetActive(ctx context.Context, list []dom.TaskView) error {
	return c.set(ctx, keyActive, list)
}

// GetSearch returns cached search result for query q, or nil if miss.
func (c *ViewCache) GetSearch(ctx context.Context, q string) ([]dom.TaskView, error) {
	return c.get(ctx, keySearch+NormalizeQuery(q))
}

func (c *ViewCache) SetSearch(ctx context.Context, q string, list []dom.TaskView) error {
	return c.set(ctx, keySearch+NormalizeQuery(q), list)
}

// InvalidateAll removes every view key. Called after each write.
func (c *ViewCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyOpen, keyActive).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *ViewCache) get(ctx context.Context, key string) ([]dom.TaskView, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.TaskView{}
	if err := sonic.Unmarshal(b, &list); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return nil, err
	}
	return list, nil
}

func (c *ViewCache) set(ctx context.Context, key string, list []dom.TaskView) error {
	if c.ttl <= 0 {
		return nil
	}
	if list == nil {
		list = []dom.TaskView{}
	}
	b, err := sonic.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// NormalizeQuery lowercases and trims a search query for use in keys.
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(strings.ToLower(q))
	if r := []rune(q); len(r) > maxQueryKeyLen {
		q = string(r[:maxQueryKeyLen])
	}
	return q
}
