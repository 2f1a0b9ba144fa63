package messageset

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

const (
	messageSetKeyPrefix = "hellomama:messageset:"
	scheduleKeyPrefix   = "hellomama:schedule:"
)

// Cache is a Redis read-through cache in front of another Lookup.
// Redis failures are logged and the lookup falls through to next.
type Cache struct {
	client *redis.Client
	next   Lookup
	ttl    time.Duration
	log    *zap.Logger
}

// NewCache wraps next with a Redis cache whose entries expire after ttl.
func NewCache(client *redis.Client, next Lookup, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{client: client, next: next, ttl: ttl, log: log}
}

// LookupMessageSet returns the cached descriptor or fetches and stores it.
func (c *Cache) LookupMessageSet(ctx context.Context, shortName string) (model.MessageSet, error) {
	key := messageSetKeyPrefix + shortName
	var ms model.MessageSet
	if c.get(ctx, key, &ms) {
		return ms, nil
	}
	ms, err := c.next.LookupMessageSet(ctx, shortName)
	if err != nil {
		return model.MessageSet{}, err
	}
	c.set(ctx, key, ms)
	return ms, nil
}

// LookupSchedule returns the cached descriptor or fetches and stores it.
func (c *Cache) LookupSchedule(ctx context.Context, id int) (model.Schedule, error) {
	key := scheduleKeyPrefix + strconv.Itoa(id)
	var s model.Schedule
	if c.get(ctx, key, &s) {
		return s, nil
	}
	s, err := c.next.LookupSchedule(ctx, id)
	if err != nil {
		return model.Schedule{}, err
	}
	c.set(ctx, key, s)
	return s, nil
}

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("descriptor cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("descriptor cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("descriptor cache write failed", zap.String("key", key), zap.Error(err))
	}
}
