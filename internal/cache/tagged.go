package cache

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"

	"github.com/gosuda/bilemo/internal/metrics"
	redisstore "github.com/gosuda/bilemo/internal/store/redis"
)

// Bus fans invalidations out to other replicas.
type Bus interface {
	PublishInvalidation(ctx context.Context, inv redisstore.Invalidation) error
	SubscribeInvalidations(ctx context.Context) (<-chan redisstore.Invalidation, func(), error)
}

// ComputeFunc produces the serialized payload on a miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Config sizes the underlying sturdyc client.
type Config struct {
	Capacity        int
	Shards          int
	TTL             time.Duration
	EvictionPercent int
}

type TagCache struct {
	store  *sturdyc.Client[[]byte]
	bus    Bus
	origin uuid.UUID
	log    zerolog.Logger

	mu   sync.Mutex
	gens map[string]uint64
	// keys tracks the storage keys registered under each tag since its
	// last invalidation.
	keys map[string]map[string]struct{}
}

// New creates a TagCache. bus may be nil for a single replica.
func New(cfg Config, bus Bus, logger zerolog.Logger) *TagCache {
	return &TagCache{
		store:  sturdyc.New[[]byte](cfg.Capacity, cfg.Shards, cfg.TTL, cfg.EvictionPercent),
		bus:    bus,
		origin: uuid.New(),
		log:    logger.With().Str("component", "cache").Logger(),
		gens:   make(map[string]uint64),
		keys:   make(map[string]map[string]struct{}),
	}
}

// Origin identifies this replica on the invalidation bus.
func (c *TagCache) Origin() uuid.UUID {
	return c.origin
}

// GetOrCompute returns the payload stored under key, running compute on a
// miss. Concurrent misses on the same key share one computation. Errors
// from compute are returned and never stored.
func (c *TagCache) GetOrCompute(ctx context.Context, key string, tags []string, compute ComputeFunc) ([]byte, error) {
	label := metricLabel(tags)
	metrics.CacheLookupsTotal.WithLabelValues(label).Inc()

	storageKey, gens := c.register(key, tags)

	payload, err := c.store.GetOrFetch(ctx, storageKey, func(ctx context.Context) ([]byte, error) {
		b, computeErr := compute(ctx)
		result := "ok"
		if computeErr != nil {
			result = "error"
		}
		metrics.CacheComputationsTotal.WithLabelValues(label, result).Inc()
		return b, computeErr
	})

	// An invalidation raced with the computation; the entry is unreachable.
	if !c.current(tags, gens) {
		c.store.Delete(storageKey)
	}

	if err != nil {
		return nil, fmt.Errorf("cache.GetOrCompute %s: %w", key, err)
	}

	return payload, nil
}

// Invalidate drops every entry registered under tags and, when a bus is
// configured, tells the other replicas to do the same. Local entries are
// gone even when publishing fails.
func (c *TagCache) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	c.invalidateLocal(tags, "local")

	if c.bus == nil {
		return nil
	}
	err := c.bus.PublishInvalidation(ctx, redisstore.Invalidation{Origin: c.origin, Tags: tags})
	if err != nil {
		return fmt.Errorf("cache.Invalidate: %w", err)
	}

	return nil
}

// ApplyRemote applies an invalidation received from the bus. Messages this
// replica published itself are ignored.
func (c *TagCache) ApplyRemote(inv redisstore.Invalidation) {
	if inv.Origin == c.origin || len(inv.Tags) == 0 {
		return
	}
	c.invalidateLocal(inv.Tags, "remote")
}

// Listen applies remote invalidations until ctx is done or the
// subscription ends.
func (c *TagCache) Listen(ctx context.Context) error {
	if c.bus == nil {
		return nil
	}

	ch, cleanup, err := c.bus.SubscribeInvalidations(ctx)
	if err != nil {
		return fmt.Errorf("cache.Listen: %w", err)
	}
	defer cleanup()

	c.log.Info().Str("origin", c.origin.String()).Msg("listening for cache invalidations")

	for {
		select {
		case <-ctx.Done():
			return nil
		case inv, ok := <-ch:
			if !ok {
				return nil
			}
			c.ApplyRemote(inv)
		}
	}
}

// register records key under tags and returns the physical storage key for
// the current generations along with those generations.
func (c *TagCache) register(key string, tags []string) (string, []uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gens := make([]uint64, len(tags))
	var b strings.Builder
	b.WriteString(key)
	for i, tag := range tags {
		gens[i] = c.gens[tag]
		b.WriteByte('|')
		b.WriteString(tag)
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(gens[i], 10))
	}
	storageKey := b.String()

	for _, tag := range tags {
		set, ok := c.keys[tag]
		if !ok {
			set = make(map[string]struct{})
			c.keys[tag] = set
		}
		set[storageKey] = struct{}{}
	}

	return storageKey, gens
}

func (c *TagCache) current(tags []string, gens []uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, tag := range tags {
		if c.gens[tag] != gens[i] {
			return false
		}
	}
	return true
}

func (c *TagCache) invalidateLocal(tags []string, origin string) {
	var stale []string

	c.mu.Lock()
	for _, tag := range tags {
		c.gens[tag]++
		for k := range c.keys[tag] {
			stale = append(stale, k)
		}
		delete(c.keys, tag)
	}
	c.mu.Unlock()

	slices.Sort(stale)
	for _, k := range slices.Compact(stale) {
		c.store.Delete(k)
	}

	for _, tag := range tags {
		metrics.CacheInvalidationsTotal.WithLabelValues(tag, origin).Inc()
	}
	c.log.Debug().Strs("tags", tags).Str("origin", origin).Int("entries", len(stale)).Msg("cache invalidated")
}

func metricLabel(tags []string) string {
	if len(tags) == 0 {
		return "untagged"
	}
	return tags[0]
}
