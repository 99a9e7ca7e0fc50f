package world

import (
	"reflect"
	"testing"

	"github.com/blockforge/worldstore/pkg/world/gen"
)

func testChunkData() *gen.ChunkData {
	data := &gen.ChunkData{}
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			data.SetBlock(x, 0, z, 7)
			for y := 1; y < 60; y++ {
				data.SetBlock(x, y, z, 1)
			}
			data.SetBlock(x, 60, z, 2)
			data.SetBiome(x, z, 1)
		}
	}
	data.SetBlock(3, 200, 9, 56)
	return data
}

func TestChunkRoundTrip(t *testing.T) {
	pos := gen.ChunkPos{X: -7, Z: 12}
	c := FromGenerated(pos, testChunkData(), StageFull)

	encoded, err := c.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeChunk(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Pos != pos {
		t.Errorf("pos = %v, want %v", got.Pos, pos)
	}
	if got.Stage != StageFull {
		t.Errorf("stage = %v, want %v", got.Stage, StageFull)
	}
	if got.HeightMap != c.HeightMap {
		t.Error("heightmap changed across round trip")
	}
	if got.Biomes != c.Biomes {
		t.Error("biomes changed across round trip")
	}
	for y := 0; y < 256; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				if a, b := c.Block(x, y, z), got.Block(x, y, z); a != b {
					t.Fatalf("block (%d,%d,%d) = %d after round trip, want %d", x, y, z, b, a)
				}
			}
		}
	}
}

func TestChunkDeterministicEncoding(t *testing.T) {
	c := FromGenerated(gen.ChunkPos{X: 1, Z: 1}, testChunkData(), StageFull)
	first, err := c.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := c.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Error("repeated encodings of the same chunk differ")
	}

	decoded, err := DecodeChunk(first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	redone, err := decoded.MarshalNBT()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !reflect.DeepEqual(first, redone) {
		t.Error("decode then encode is not byte identical")
	}
}

func TestChunkHeightMap(t *testing.T) {
	c := FromGenerated(gen.ChunkPos{}, testChunkData(), StageFull)

	if got := c.HeightMap[9*16+3]; got != 201 {
		t.Errorf("height at (3,9) = %d, want 201", got)
	}
	if got := c.HeightMap[0]; got != 61 {
		t.Errorf("height at (0,0) = %d, want 61", got)
	}

	// Placing a block above the surface raises the column height.
	c.SetBlock(0, 100, 0, 4)
	if got := c.HeightMap[0]; got != 101 {
		t.Errorf("height after placement = %d, want 101", got)
	}
	// Removing it scans back down to the old surface.
	c.SetBlock(0, 100, 0, 0)
	if got := c.HeightMap[0]; got != 61 {
		t.Errorf("height after removal = %d, want 61", got)
	}
}

func TestChunkEmptySectionsOmitted(t *testing.T) {
	data := &gen.ChunkData{}
	data.SetBlock(0, 0, 0, 1)
	c := FromGenerated(gen.ChunkPos{}, data, StageFull)

	for i := 1; i < 16; i++ {
		if c.Sections[i] != nil {
			t.Errorf("section %d allocated for all-air region", i)
		}
	}
	if c.Sections[0] == nil {
		t.Fatal("section 0 missing")
	}

	encoded, err := c.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeChunk(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Sections[5] != nil {
		t.Error("absent section materialized by decode")
	}
	if got.Block(0, 200, 0) != 0 {
		t.Error("absent section does not read as air")
	}
}

func TestGeneratedChunkStableAtOrigin(t *testing.T) {
	pos := gen.ChunkPos{X: 0, Z: 0}
	g := gen.NewDefaultGenerator(42)

	first, err := g.Generate(pos)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := g.Generate(pos)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	a := FromGenerated(pos, first, StageFull)
	b := FromGenerated(pos, second, StageFull)
	if a.HeightMap != b.HeightMap {
		t.Error("heightmaps differ between runs")
	}
	for i := range a.Sections {
		switch {
		case (a.Sections[i] == nil) != (b.Sections[i] == nil):
			t.Fatalf("section %d presence differs between runs", i)
		case a.Sections[i] == nil:
		case !reflect.DeepEqual(a.Sections[i].Palette(), b.Sections[i].Palette()):
			t.Errorf("section %d palettes differ between runs", i)
		}
	}
}

func TestDecodeChunkRejectsGarbage(t *testing.T) {
	if _, err := DecodeChunk([]byte{0x0a, 0x00, 0x00}); err == nil {
		t.Error("truncated document accepted")
	}
	if _, err := DecodeChunk(nil); err == nil {
		t.Error("empty document accepted")
	}
}

func TestSectionPaletteGrowth(t *testing.T) {
	var blocks [sectionVolume]uint16
	blocks[0] = 1
	s := packSection(&blocks)

	if got := len(s.Palette()); got != 2 {
		t.Fatalf("palette size = %d, want 2", got)
	}

	// Push the palette past 16 entries to force a repack to wider indices.
	for i := 0; i < 40; i++ {
		s.set(i, uint16(100+i))
	}
	for i := 0; i < 40; i++ {
		if got := s.at(i); got != uint16(100+i) {
			t.Fatalf("cell %d = %d after repack, want %d", i, got, 100+i)
		}
	}
	if got := s.at(40); got != 0 {
		t.Errorf("untouched cell = %d after repack, want 0", got)
	}
}

func TestSectionFromPartsValidation(t *testing.T) {
	var blocks [sectionVolume]uint16
	blocks[7] = 3
	s := packSection(&blocks)

	if _, err := sectionFromParts(s.Palette(), s.cells[:len(s.cells)-1]); err == nil {
		t.Error("short cell slice accepted")
	}
	if _, err := sectionFromParts(nil, s.cells); err == nil {
		t.Error("empty palette accepted")
	}

	// An index beyond the palette must be rejected, not read out of range.
	bad := make([]uint64, len(s.cells))
	copy(bad, s.cells)
	bad[0] |= 0xf
	if _, err := sectionFromParts(s.Palette(), bad); err == nil {
		t.Error("out-of-range palette index accepted")
	}
}
