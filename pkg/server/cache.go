package server

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/telarmx/artisan-finder/pkg/common/jsoncompat"
)

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache is a redis backed cache with a short lived in-process layer in
// front, used for the upstream pass-through lists.
type Cache struct {
	client *redis.Client
	mu     sync.Mutex
	local  map[string]localEntry
}

const localTtl = time.Minute

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, local: make(map[string]localEntry)}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	entry, found := c.local[key]
	if found && entry.expires.After(time.Now()) {
		c.mu.Unlock()
		return jsoncompat.Unmarshal(entry.data, out)
	}
	if found {
		delete(c.local, key)
	}
	c.mu.Unlock()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(localTtl), data: data}
	c.mu.Unlock()
	return jsoncompat.Unmarshal(data, out)
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(min(localTtl, expiration)), data: data}
	c.mu.Unlock()
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
