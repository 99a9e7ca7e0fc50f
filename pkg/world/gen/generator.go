// Package gen produces chunk terrain deterministically from a world seed.
//
// A generator is a pure function of (seed, chunk position): two invocations
// with the same inputs yield byte-identical chunk data regardless of which
// goroutine runs them. All randomness is derived from the seed plus fixed
// per-concern salts, never from ambient state.
package gen

import "fmt"

// ChunkPos identifies a chunk column by its X and Z coordinates.
type ChunkPos struct{ X, Z int }

func (p ChunkPos) String() string { return fmt.Sprintf("%d,%d", p.X, p.Z) }

// Section holds block states for a 16×16×16 slice of a chunk.
// Index = y*256 + z*16 + x, value = blockID<<4 | metadata.
type Section struct {
	Blocks [4096]uint16
}

// ChunkData is the raw output of a generator: one chunk column of block
// states plus a biome assignment per surface cell.
type ChunkData struct {
	Sections [16]*Section // nil = all-air
	Biomes   [256]byte    // index = z*16 + x
}

// Generator produces chunk data deterministically from a seed.
type Generator interface {
	Generate(pos ChunkPos) (*ChunkData, error)
	HeightAt(blockX, blockZ int) int
}

// GenerationError reports a failed pipeline pass for one chunk.
type GenerationError struct {
	Pass string
	Pos  ChunkPos
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate chunk (%s): %s pass: %v", e.Pos, e.Pass, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SetBlock sets a block state at local coordinates within the chunk.
// x, z must be in [0,16), y in [0,256).
func (c *ChunkData) SetBlock(x, y, z int, state uint16) {
	sec := y >> 4
	if c.Sections[sec] == nil {
		if state == 0 {
			return
		}
		c.Sections[sec] = &Section{}
	}
	c.Sections[sec].Blocks[(y&0xF)*256+z*16+x] = state
}

// GetBlock returns the block state at local coordinates.
func (c *ChunkData) GetBlock(x, y, z int) uint16 {
	sec := y >> 4
	if c.Sections[sec] == nil {
		return 0
	}
	return c.Sections[sec].Blocks[(y&0xF)*256+z*16+x]
}

// SetBiome sets the biome ID at local x, z.
func (c *ChunkData) SetBiome(x, z int, biome byte) {
	c.Biomes[z*16+x] = biome
}

func setIfInBounds(c *ChunkData, x, y, z int, state uint16) {
	if x < 0 || x >= 16 || z < 0 || z >= 16 || y < 0 || y >= 256 {
		return
	}
	c.SetBlock(x, y, z, state)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
