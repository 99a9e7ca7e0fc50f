package world

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blockforge/worldstore/internal/world/region"
	"github.com/blockforge/worldstore/pkg/world/gen"
)

// countingGenerator wraps another generator and counts Generate calls, with
// an optional delay to widen race windows.
type countingGenerator struct {
	inner gen.Generator
	calls atomic.Int64
	delay time.Duration
}

func (g *countingGenerator) Generate(pos gen.ChunkPos) (*gen.ChunkData, error) {
	g.calls.Add(1)
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return g.inner.Generate(pos)
}

func (g *countingGenerator) HeightAt(bx, bz int) int { return g.inner.HeightAt(bx, bz) }

func openTestWorld(t *testing.T, dir string, counter *countingGenerator) *World {
	t.Helper()
	w, err := New(Options{
		Seed:        42,
		Dir:         dir,
		Generator:   counter,
		Compression: region.SchemeZlib,
		CacheChunks: 64,
		LockTimeout: time.Second,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("open world: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWorldGeneratesOnce(t *testing.T) {
	counter := &countingGenerator{inner: gen.NewDefaultGenerator(42)}
	w := openTestWorld(t, t.TempDir(), counter)

	pos := gen.ChunkPos{X: 3, Z: -9}
	first, err := w.Chunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	again, err := w.Chunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first != again {
		t.Error("second request did not hit the cache")
	}
	if got := counter.calls.Load(); got != 1 {
		t.Errorf("generator ran %d times, want 1", got)
	}
}

func TestWorldConcurrentRequestsShareOneLoad(t *testing.T) {
	counter := &countingGenerator{inner: gen.NewDefaultGenerator(42), delay: 20 * time.Millisecond}
	w := openTestWorld(t, t.TempDir(), counter)

	pos := gen.ChunkPos{X: 0, Z: 0}
	const callers = 16
	results := make([]*Chunk, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := w.Chunk(context.Background(), pos)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = c
		}(i)
	}
	wg.Wait()

	if got := counter.calls.Load(); got != 1 {
		t.Errorf("generator ran %d times under contention, want 1", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d received a different chunk instance", i)
		}
	}
}

func TestWorldReloadsFromDiskAfterRestart(t *testing.T) {
	dir := t.TempDir()
	pos := gen.ChunkPos{X: 2, Z: 3}

	counter := &countingGenerator{inner: gen.NewDefaultGenerator(42)}
	w := openTestWorld(t, dir, counter)
	original, err := w.Chunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := &countingGenerator{inner: gen.NewDefaultGenerator(42)}
	w2 := openTestWorld(t, dir, reopened)
	loaded, err := w2.Chunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if got := reopened.calls.Load(); got != 0 {
		t.Errorf("generator ran %d times after restart, want 0", got)
	}
	if loaded.Pos != original.Pos || loaded.Stage != original.Stage {
		t.Error("reloaded chunk metadata differs")
	}
	if loaded.HeightMap != original.HeightMap {
		t.Error("reloaded heightmap differs")
	}
	for y := 0; y < 256; y += 7 {
		for i := 0; i < 256; i += 13 {
			x, z := i&15, i>>4
			if a, b := original.Block(x, y, z), loaded.Block(x, y, z); a != b {
				t.Fatalf("block (%d,%d,%d) = %d after restart, want %d", x, y, z, b, a)
			}
		}
	}
}

func TestWorldSavePersistsEdits(t *testing.T) {
	dir := t.TempDir()
	pos := gen.ChunkPos{X: -1, Z: -1}
	ctx := context.Background()

	w := openTestWorld(t, dir, &countingGenerator{inner: gen.NewDefaultGenerator(42)})
	c, err := w.Chunk(ctx, pos)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	c.SetBlock(5, 200, 5, 57)
	if err := w.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The saved version is immediately visible to later requests.
	cached, err := w.Chunk(ctx, pos)
	if err != nil {
		t.Fatalf("request after save: %v", err)
	}
	if cached.Block(5, 200, 5) != 57 {
		t.Error("request after save returned a stale chunk")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w2 := openTestWorld(t, dir, &countingGenerator{inner: gen.NewDefaultGenerator(42)})
	loaded, err := w2.Chunk(ctx, pos)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := loaded.Block(5, 200, 5); got != 57 {
		t.Errorf("edited block = %d after restart, want 57", got)
	}
	if got := loaded.HeightMap[5*16+5]; got != 201 {
		t.Errorf("edited column height = %d, want 201", got)
	}
}

func TestWorldPregenerate(t *testing.T) {
	counter := &countingGenerator{inner: gen.NewDefaultGenerator(7)}
	w := openTestWorld(t, t.TempDir(), counter)

	if err := w.Pregenerate(context.Background(), gen.ChunkPos{}, 1, 4); err != nil {
		t.Fatalf("pregenerate: %v", err)
	}
	if got := counter.calls.Load(); got != 9 {
		t.Errorf("generator ran %d times for radius 1, want 9", got)
	}

	// A second pass is served entirely from cache.
	if err := w.Pregenerate(context.Background(), gen.ChunkPos{}, 1, 4); err != nil {
		t.Fatalf("second pregenerate: %v", err)
	}
	if got := counter.calls.Load(); got != 9 {
		t.Errorf("generator ran %d times after warm pass, want 9", got)
	}
}

func TestWorldCancelledContext(t *testing.T) {
	w := openTestWorld(t, t.TempDir(), &countingGenerator{inner: gen.NewDefaultGenerator(42)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Chunk(ctx, gen.ChunkPos{X: 9, Z: 9}); err == nil {
		t.Error("request with cancelled context succeeded")
	}
}

func TestWorldIncompleteChunkRegenerated(t *testing.T) {
	dir := t.TempDir()
	pos := gen.ChunkPos{X: 4, Z: 4}
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Persist a chunk that never finished the pipeline.
	store, err := region.Open(dir, region.SchemeZlib, time.Second, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	partial := FromGenerated(pos, &gen.ChunkData{}, StageShaped)
	encoded, err := partial.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := store.Store(pos, encoded); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	counter := &countingGenerator{inner: gen.NewDefaultGenerator(42)}
	w := openTestWorld(t, dir, counter)
	c, err := w.Chunk(ctx, pos)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := counter.calls.Load(); got != 1 {
		t.Errorf("generator ran %d times for a partial chunk, want 1", got)
	}
	if c.Stage != StageFull {
		t.Errorf("stage = %v after regeneration, want %v", c.Stage, StageFull)
	}
	if c.Block(0, 0, 0) == 0 {
		t.Error("regenerated chunk has no bedrock floor")
	}
}
