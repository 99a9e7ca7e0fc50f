package world

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/blockforge/worldstore/pkg/world/gen"
)

// ChunkCache is a concurrent, coordinate-keyed cache of materialized chunks
// with single-flight loading: at most one load-or-generate runs per
// coordinate, and racing callers share its result. The resident set is
// bounded by a chunk budget; since every cached chunk is already durable in
// the region store, eviction never loses state. A chunk being generated is
// held by its waiters directly and is not evictable until inserted.
type ChunkCache struct {
	cache *ristretto.Cache[string, *Chunk]
	group singleflight.Group
}

// NewChunkCache creates a cache bounded to maxChunks resident chunks.
func NewChunkCache(maxChunks int64) (*ChunkCache, error) {
	if maxChunks <= 0 {
		maxChunks = 1024
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Chunk]{
		NumCounters: maxChunks * 10,
		MaxCost:     maxChunks,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create chunk cache: %w", err)
	}
	return &ChunkCache{cache: cache}, nil
}

// GetOrLoad returns the cached chunk for pos or runs load to produce it.
// Concurrent callers for the same coordinate wait on the one in-flight load
// rather than each invoking it. A failed load is never cached; a later call
// retries from scratch.
func (cc *ChunkCache) GetOrLoad(pos gen.ChunkPos, load func() (*Chunk, error)) (*Chunk, error) {
	key := pos.String()
	if c, ok := cc.cache.Get(key); ok {
		return c, nil
	}

	v, err, _ := cc.group.Do(key, func() (any, error) {
		// A losing racer from a previous flight may have populated the
		// cache between our miss and entering the group.
		if c, ok := cc.cache.Get(key); ok {
			return c, nil
		}
		c, err := load()
		if err != nil {
			return nil, err
		}
		cc.cache.Set(key, c, 1)
		// Insertion is buffered; flush before the flight is forgotten so
		// the next miss for this key finds the chunk resident.
		cc.cache.Wait()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Chunk), nil
}

// Put inserts or refreshes the cached chunk for its coordinate.
func (cc *ChunkCache) Put(c *Chunk) { cc.cache.Set(c.Pos.String(), c, 1) }

// Wait blocks until pending cache insertions are applied.
func (cc *ChunkCache) Wait() { cc.cache.Wait() }

// Close releases the cache's resources.
func (cc *ChunkCache) Close() { cc.cache.Close() }
