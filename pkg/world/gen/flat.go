package gen

// FlatGenerator generates a classic superflat world:
// bedrock at y=0, stone y=1..2, dirt y=3, grass y=4.
type FlatGenerator struct{}

// NewFlatGenerator creates a FlatGenerator. The seed is accepted for
// interface symmetry but has no effect on a flat world.
func NewFlatGenerator(_ int64) *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) Generate(_ ChunkPos) (*ChunkData, error) {
	c := &ChunkData{}

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			c.SetBlock(x, 0, z, blockBedrock<<4)
			c.SetBlock(x, 1, z, blockStone<<4)
			c.SetBlock(x, 2, z, blockStone<<4)
			c.SetBlock(x, 3, z, blockDirt<<4)
			c.SetBlock(x, 4, z, blockGrass<<4)
			c.SetBiome(x, z, biomePlains)
		}
	}
	return c, nil
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return 4 // top solid block is the grass layer
}
