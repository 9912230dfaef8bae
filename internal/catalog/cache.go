package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/variation"
)

const (
	optionCacheKeyPrefix = "catalog:options:"
	optionCacheTTL       = 5 * time.Minute
)

// OptionCache stores resolved category option lists in Redis. Cache misses
// and Redis failures both fall through to the database; the cache is a
// read-side accelerator, never a source of truth.
type OptionCache struct {
	rdb *redis.Client
}

// NewOptionCache creates an OptionCache after verifying connectivity.
func NewOptionCache(ctx context.Context, rdb *redis.Client) (*OptionCache, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &OptionCache{rdb: rdb}, nil
}

// cachedOption is the wire form of a cached option. Older tooling wrote
// entries with uuid/title keys instead of id/name; both shapes decode here
// and normalize to the canonical variation.Option before anything else
// sees them. The engine itself never branches on shape.
type cachedOption struct {
	ID    string          `json:"id,omitempty"`
	UUID  string          `json:"uuid,omitempty"`
	Name  string          `json:"name,omitempty"`
	Title string          `json:"title,omitempty"`
	Price decimal.Decimal `json:"price"`
}

func (c cachedOption) normalize() variation.Option {
	opt := variation.Option{
		ID:        c.ID,
		Name:      c.Name,
		Price:     c.Price,
		Available: true,
	}
	if opt.ID == "" {
		opt.ID = c.UUID
	}
	if opt.Name == "" {
		opt.Name = c.Title
	}
	return opt
}

// Get returns the cached option list for a category name, or ok=false.
func (c *OptionCache) Get(ctx context.Context, categoryName string) ([]variation.Option, bool) {
	val, err := c.rdb.Get(ctx, optionCacheKeyPrefix+categoryName).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("ERROR: option cache get %q: %v", categoryName, err)
		}
		return nil, false
	}

	var raw []cachedOption
	if err := json.Unmarshal([]byte(val), &raw); err != nil {
		log.Printf("ERROR: option cache decode %q: %v", categoryName, err)
		return nil, false
	}

	opts := make([]variation.Option, len(raw))
	for i, r := range raw {
		opts[i] = r.normalize()
	}
	return opts, true
}

// Set stores an option list. Failures are logged and swallowed.
func (c *OptionCache) Set(ctx context.Context, categoryName string, opts []variation.Option) {
	raw := make([]cachedOption, len(opts))
	for i, o := range opts {
		raw[i] = cachedOption{ID: o.ID, Name: o.Name, Price: o.Price}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		log.Printf("ERROR: option cache encode %q: %v", categoryName, err)
		return
	}
	if err := c.rdb.Set(ctx, optionCacheKeyPrefix+categoryName, data, optionCacheTTL).Err(); err != nil {
		log.Printf("ERROR: option cache set %q: %v", categoryName, err)
	}
}

// Invalidate drops the cached options for a category name. Called by the
// admin handlers after menu edits.
func (c *OptionCache) Invalidate(ctx context.Context, categoryName string) {
	if err := c.rdb.Del(ctx, optionCacheKeyPrefix+categoryName).Err(); err != nil {
		log.Printf("ERROR: option cache invalidate %q: %v", categoryName, err)
	}
}
