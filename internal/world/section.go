package world

import "fmt"

const sectionVolume = 16 * 16 * 16

// Section stores a 16×16×16 block volume as a palette of distinct block
// states plus packed per-cell palette indices. Cells use the minimum index
// width (floor 4 bits) and never span 64-bit words.
type Section struct {
	palette []uint16
	bits    uint
	cells   []uint64
}

// bitsFor returns the index width for a palette of n entries.
func bitsFor(n int) uint {
	bits := uint(4)
	for 1<<bits < n {
		bits++
	}
	return bits
}

func cellWords(bits uint) int {
	perWord := 64 / int(bits)
	return (sectionVolume + perWord - 1) / perWord
}

// packSection builds a Section from a flat block-state array. Palette order
// is first appearance, so identical inputs pack to identical sections.
func packSection(blocks *[sectionVolume]uint16) *Section {
	palette := make([]uint16, 0, 16)
	index := make(map[uint16]int, 16)
	for _, state := range blocks {
		if _, ok := index[state]; !ok {
			index[state] = len(palette)
			palette = append(palette, state)
		}
	}

	s := &Section{
		palette: palette,
		bits:    bitsFor(len(palette)),
	}
	s.cells = make([]uint64, cellWords(s.bits))
	for i, state := range blocks {
		s.put(i, uint64(index[state]))
	}
	return s
}

func (s *Section) put(i int, idx uint64) {
	perWord := 64 / int(s.bits)
	word := i / perWord
	shift := uint(i%perWord) * s.bits
	mask := uint64(1)<<s.bits - 1
	s.cells[word] = s.cells[word]&^(mask<<shift) | idx<<shift
}

func (s *Section) at(i int) uint16 {
	perWord := 64 / int(s.bits)
	word := i / perWord
	shift := uint(i%perWord) * s.bits
	mask := uint64(1)<<s.bits - 1
	return s.palette[s.cells[word]>>shift&mask]
}

// set stores a block state, growing the palette and repacking to a wider
// index when needed.
func (s *Section) set(i int, state uint16) {
	for idx, p := range s.palette {
		if p == state {
			s.put(i, uint64(idx))
			return
		}
	}

	s.palette = append(s.palette, state)
	if need := bitsFor(len(s.palette)); need != s.bits {
		s.repack(need)
	}
	s.put(i, uint64(len(s.palette)-1))
}

func (s *Section) repack(bits uint) {
	old := *s
	s.bits = bits
	s.cells = make([]uint64, cellWords(bits))
	for i := 0; i < sectionVolume; i++ {
		perWord := 64 / int(old.bits)
		word := i / perWord
		shift := uint(i%perWord) * old.bits
		mask := uint64(1)<<old.bits - 1
		s.put(i, old.cells[word]>>shift&mask)
	}
}

// Palette returns the section's distinct block states.
func (s *Section) Palette() []uint16 { return s.palette }

// sectionFromParts validates decoded palette and cell data.
func sectionFromParts(palette []uint16, cells []uint64) (*Section, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("section palette is empty")
	}
	bits := bitsFor(len(palette))
	if len(cells) != cellWords(bits) {
		return nil, fmt.Errorf("section has %d cell words, want %d for %d palette entries",
			len(cells), cellWords(bits), len(palette))
	}
	s := &Section{palette: palette, bits: bits, cells: cells}
	// Every stored index must resolve inside the palette.
	mask := uint64(1)<<bits - 1
	perWord := 64 / int(bits)
	for i := 0; i < sectionVolume; i++ {
		idx := s.cells[i/perWord] >> (uint(i%perWord) * bits) & mask
		if int(idx) >= len(palette) {
			return nil, fmt.Errorf("cell %d references palette entry %d of %d", i, idx, len(palette))
		}
	}
	return s, nil
}
