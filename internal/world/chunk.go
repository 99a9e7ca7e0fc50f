package world

import (
	"fmt"

	"github.com/blockforge/worldstore/pkg/world/gen"
	"github.com/blockforge/worldstore/pkg/world/nbt"
)

// Stage marks how far through the generation pipeline a chunk has
// progressed. Chunks persisted before completing the pipeline are
// regenerated from scratch on next access.
type Stage byte

const (
	StageEmpty Stage = iota
	StageShaped
	StageCarved
	StageSurfaced
	StageFull
)

// Chunk is a materialized chunk column: paletted block sections, a per-column
// heightmap, biome assignments, and the generation stage marker. A chunk is
// not internally synchronized; gameplay mutation is coordinated by the
// caller, and storage only requires that it re-serializes.
type Chunk struct {
	Pos       gen.ChunkPos
	Stage     Stage
	Sections  [16]*Section // nil = all-air
	HeightMap [256]int32   // index = z*16 + x, highest occupied y + 1
	Biomes    [256]byte
}

// FromGenerated packs raw generator output into a chunk, computing the
// heightmap from the topmost non-air block of each column.
func FromGenerated(pos gen.ChunkPos, data *gen.ChunkData, stage Stage) *Chunk {
	c := &Chunk{Pos: pos, Stage: stage, Biomes: data.Biomes}

	for i, sec := range data.Sections {
		if sec != nil {
			c.Sections[i] = packSection(&sec.Blocks)
		}
	}

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y := 255; y >= 0; y-- {
				if data.GetBlock(x, y, z) != 0 {
					c.HeightMap[z*16+x] = int32(y + 1)
					break
				}
			}
		}
	}
	return c
}

// Block returns the block state at local coordinates, 0 outside the world
// height.
func (c *Chunk) Block(x, y, z int) uint16 {
	if y < 0 || y >= 256 {
		return 0
	}
	sec := c.Sections[y>>4]
	if sec == nil {
		return 0
	}
	return sec.at((y&0xF)*256 + z*16 + x)
}

// SetBlock stores a block state at local coordinates and keeps the
// heightmap current.
func (c *Chunk) SetBlock(x, y, z int, state uint16) {
	if y < 0 || y >= 256 {
		return
	}
	si := y >> 4
	if c.Sections[si] == nil {
		if state == 0 {
			return
		}
		var empty [sectionVolume]uint16
		c.Sections[si] = packSection(&empty)
	}
	c.Sections[si].set((y&0xF)*256+z*16+x, state)

	col := z*16 + x
	switch {
	case state != 0 && int32(y+1) > c.HeightMap[col]:
		c.HeightMap[col] = int32(y + 1)
	case state == 0 && int32(y+1) == c.HeightMap[col]:
		c.HeightMap[col] = 0
		for yy := y; yy >= 0; yy-- {
			if c.Block(x, yy, z) != 0 {
				c.HeightMap[col] = int32(yy + 1)
				break
			}
		}
	}
}

// MarshalNBT serializes the chunk to its on-disk tag form. Serialization is
// deterministic: the same chunk always encodes to identical bytes.
func (c *Chunk) MarshalNBT() ([]byte, error) {
	heights := make(nbt.IntArray, 256)
	copy(heights, c.HeightMap[:])

	sections := nbt.List{Elem: nbt.TypeCompound}
	for i, sec := range c.Sections {
		if sec == nil {
			continue
		}
		palette := make(nbt.IntArray, len(sec.palette))
		for j, state := range sec.palette {
			palette[j] = int32(state)
		}
		cells := make(nbt.LongArray, len(sec.cells))
		for j, w := range sec.cells {
			cells[j] = int64(w)
		}
		sections.Items = append(sections.Items, nbt.NewCompound().
			Set("Y", nbt.Byte(i)).
			Set("Palette", palette).
			Set("BlockStates", cells))
	}

	level := nbt.NewCompound().
		Set("xPos", nbt.Int(c.Pos.X)).
		Set("zPos", nbt.Int(c.Pos.Z)).
		Set("Stage", nbt.Byte(c.Stage)).
		Set("Biomes", nbt.ByteArray(c.Biomes[:])).
		Set("HeightMap", heights).
		Set("Sections", sections)

	return nbt.Marshal("", nbt.NewCompound().Set("Level", level))
}

// DecodeChunk parses a chunk from its on-disk tag form.
func DecodeChunk(data []byte) (*Chunk, error) {
	_, root, err := nbt.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	rc, ok := root.(*nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("chunk root is %s, want compound", root.Type())
	}
	level, ok := rc.Compound("Level")
	if !ok {
		return nil, fmt.Errorf("chunk missing Level compound")
	}

	c := &Chunk{}

	xp, ok := level.Int("xPos")
	if !ok {
		return nil, fmt.Errorf("chunk missing xPos")
	}
	zp, ok := level.Int("zPos")
	if !ok {
		return nil, fmt.Errorf("chunk missing zPos")
	}
	c.Pos = gen.ChunkPos{X: int(xp), Z: int(zp)}

	stage, ok := level.Byte("Stage")
	if !ok {
		return nil, fmt.Errorf("chunk missing Stage")
	}
	if Stage(stage) > StageFull {
		return nil, fmt.Errorf("unknown generation stage %d", stage)
	}
	c.Stage = Stage(stage)

	biomes, ok := level.ByteArray("Biomes")
	if !ok || len(biomes) != 256 {
		return nil, fmt.Errorf("chunk Biomes missing or wrong length")
	}
	copy(c.Biomes[:], biomes)

	heights, ok := level.IntArray("HeightMap")
	if !ok || len(heights) != 256 {
		return nil, fmt.Errorf("chunk HeightMap missing or wrong length")
	}
	copy(c.HeightMap[:], heights)

	sections, ok := level.List("Sections")
	if !ok {
		return nil, fmt.Errorf("chunk missing Sections list")
	}
	for _, item := range sections.Items {
		sc, ok := item.(*nbt.Compound)
		if !ok {
			return nil, fmt.Errorf("section is %s, want compound", item.Type())
		}
		y, ok := sc.Byte("Y")
		if !ok || y < 0 || y > 15 {
			return nil, fmt.Errorf("section Y missing or out of range")
		}
		if c.Sections[y] != nil {
			return nil, fmt.Errorf("duplicate section %d", y)
		}
		pal, ok := sc.IntArray("Palette")
		if !ok {
			return nil, fmt.Errorf("section %d missing Palette", y)
		}
		states, ok := sc.LongArray("BlockStates")
		if !ok {
			return nil, fmt.Errorf("section %d missing BlockStates", y)
		}

		palette := make([]uint16, len(pal))
		for i, v := range pal {
			if v < 0 || v > 0xFFFF {
				return nil, fmt.Errorf("section %d palette entry %d out of range", y, v)
			}
			palette[i] = uint16(v)
		}
		cells := make([]uint64, len(states))
		for i, v := range states {
			cells[i] = uint64(v)
		}
		sec, err := sectionFromParts(palette, cells)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", y, err)
		}
		c.Sections[y] = sec
	}

	return c, nil
}
