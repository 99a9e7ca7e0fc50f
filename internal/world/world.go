// Package world coordinates the chunk cache, region store, and terrain
// generator behind a single coordinate-in/chunk-out interface.
package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blockforge/worldstore/internal/world/region"
	"github.com/blockforge/worldstore/pkg/world/gen"
)

// Options configures a World. The seed is carried explicitly here rather
// than in any global so generation stays a pure function of its inputs.
type Options struct {
	Seed        int64
	Dir         string
	Generator   gen.Generator // defaults to the noise generator for Seed
	Compression region.Scheme
	CacheChunks int64
	LockTimeout time.Duration
	Log         *slog.Logger
}

// World is the chunk orchestrator: requests consult the cache, then the
// region store, then the generator, persisting and caching generated chunks.
type World struct {
	log   *slog.Logger
	store *region.Store
	cache *ChunkCache
	gen   gen.Generator
}

const retryBackoff = 50 * time.Millisecond

// New opens the region store under opts.Dir and prepares the cache and
// generator.
func New(opts Options) (*World, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Compression == 0 {
		opts.Compression = region.SchemeZlib
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 5 * time.Second
	}

	store, err := region.Open(opts.Dir, opts.Compression, opts.LockTimeout, log)
	if err != nil {
		return nil, err
	}
	cache, err := NewChunkCache(opts.CacheChunks)
	if err != nil {
		store.Close()
		return nil, err
	}

	g := opts.Generator
	if g == nil {
		g = gen.NewDefaultGenerator(opts.Seed)
	}

	return &World{log: log, store: store, cache: cache, gen: g}, nil
}

// Chunk returns the chunk at pos, generating and persisting it on first
// access. Concurrent requests for the same coordinate share one underlying
// load. Cancelling ctx abandons this caller's interest only; an in-flight
// generation keeps running for any remaining waiters.
func (w *World) Chunk(ctx context.Context, pos gen.ChunkPos) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.cache.GetOrLoad(pos, func() (*Chunk, error) {
		return w.loadOrGenerate(pos)
	})
}

func (w *World) loadOrGenerate(pos gen.ChunkPos) (*Chunk, error) {
	var (
		payload []byte
		found   bool
	)
	err := w.withRetry(func() error {
		var err error
		payload, found, err = w.store.Load(pos)
		return err
	})
	if err != nil {
		return nil, err
	}

	if found {
		c, err := DecodeChunk(payload)
		if err != nil {
			return nil, &region.CorruptionError{Pos: pos, Err: err}
		}
		if c.Stage == StageFull {
			return c, nil
		}
		// A chunk persisted mid-pipeline is regenerated from scratch.
		w.log.Warn("stored chunk incomplete, regenerating", "pos", pos, "stage", c.Stage)
	}

	data, err := w.gen.Generate(pos)
	if err != nil {
		return nil, err
	}
	c := FromGenerated(pos, data, StageFull)

	encoded, err := c.MarshalNBT()
	if err != nil {
		return nil, fmt.Errorf("encode chunk (%s): %w", pos, err)
	}
	if err := w.withRetry(func() error { return w.store.Store(pos, encoded) }); err != nil {
		return nil, err
	}

	w.log.Debug("generated chunk", "pos", pos)
	return c, nil
}

// Save re-serializes and persists a chunk mutated by gameplay, and keeps the
// cached copy current.
func (w *World) Save(ctx context.Context, c *Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := c.MarshalNBT()
	if err != nil {
		return fmt.Errorf("encode chunk (%s): %w", c.Pos, err)
	}
	if err := w.withRetry(func() error { return w.store.Store(c.Pos, encoded) }); err != nil {
		return err
	}
	w.cache.Put(c)
	// Insertion is buffered; flush so the next request sees this version.
	w.cache.Wait()
	return nil
}

// Pregenerate requests every chunk in the square of the given radius around
// center across a bounded worker pool. The first failure cancels the
// remaining work.
func (w *World) Pregenerate(ctx context.Context, center gen.ChunkPos, radius, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			pos := gen.ChunkPos{X: center.X + dx, Z: center.Z + dz}
			g.Go(func() error {
				_, err := w.Chunk(ctx, pos)
				return err
			})
		}
	}
	return g.Wait()
}

// Close flushes nothing (stores are durable at write time) and releases the
// cache and open region files.
func (w *World) Close() error {
	w.cache.Close()
	return w.store.Close()
}

// withRetry runs op, retrying once after a short backoff for transient
// failures (I/O, lock timeouts). Corruption, integrity, and generation
// errors are never retried.
func (w *World) withRetry(op func() error) error {
	err := op()
	if err == nil || !retryable(err) {
		return err
	}
	w.log.Warn("transient storage failure, retrying", "error", err)
	time.Sleep(retryBackoff)
	if err := op(); err != nil {
		return fmt.Errorf("chunk unavailable after retry: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	var (
		ce *region.CorruptionError
		ie *region.IntegrityError
		ge *gen.GenerationError
	)
	if errors.As(err, &ce) || errors.As(err, &ie) || errors.As(err, &ge) {
		return false
	}
	return true
}
