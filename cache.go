package erasite

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eringen/erasite/model"
)

// EraCache is an in-memory cache of the era list and the tag list with TTL.
// Era writes call Invalidate; comments and feedback never touch it.
type EraCache struct {
	mu      sync.RWMutex
	eras    []model.Era
	tags    []model.Tag
	fetched time.Time
	ttl     time.Duration
	store   Storage
}

// NewEraCache creates an EraCache backed by s. A zero ttl disables caching.
func NewEraCache(s Storage, ttl time.Duration) *EraCache {
	return &EraCache{store: s, ttl: ttl}
}

func (c *EraCache) valid() bool {
	return c.eras != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *EraCache) Invalidate() {
	c.mu.Lock()
	c.eras = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *EraCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	eras, err := c.store.ListEras(ctx)
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags(ctx)
	if err != nil {
		return err
	}
	if eras == nil {
		eras = []model.Era{}
	}
	c.eras = eras
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *EraCache) ensureLoaded(ctx context.Context) ([]model.Era, []model.Tag, error) {
	c.mu.RLock()
	if c.valid() {
		eras, tags := c.eras, c.tags
		c.mu.RUnlock()
		return eras, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.eras, c.tags, nil
}

// ListEras returns eras newest first, optionally only those carrying tag.
// Tag matching ignores case and surrounding spaces.
func (c *EraCache) ListEras(ctx context.Context, tag string) ([]model.Era, error) {
	eras, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return eras, nil
	}
	filtered := []model.Era{}
	for _, e := range eras {
		for _, t := range e.Tags {
			if strings.EqualFold(t, tag) {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns every known tag, including ones no era uses any more.
func (c *EraCache) ListTags(ctx context.Context) ([]model.Tag, error) {
	_, tags, err := c.ensureLoaded(ctx)
	return tags, err
}
