package gen

// DefaultGenerator produces vanilla-like terrain. The pipeline runs in a
// fixed order per chunk: noise-based shaping, cave carving, surface dressing,
// then feature placement (ores, trees, vegetation).
type DefaultGenerator struct {
	seed    int64
	terrain *Noise
	detail  *Noise
	biomes  *biomeSource
	caves   *carver
}

// NewDefaultGenerator creates a DefaultGenerator for the given world seed.
// The returned generator holds only read-only state and is safe for
// concurrent use.
func NewDefaultGenerator(seed int64) *DefaultGenerator {
	return &DefaultGenerator{
		seed:    seed,
		terrain: NewNoise(seed),
		detail:  NewNoise(seed + saltDetail),
		biomes:  newBiomeSource(seed),
		caves:   newCarver(seed),
	}
}

// Generate builds the chunk at pos. A pass failure aborts the whole chunk;
// partially generated data is never returned.
func (g *DefaultGenerator) Generate(pos ChunkPos) (*ChunkData, error) {
	c := &ChunkData{}

	// Sample heights and biomes, then raise the base terrain shape.
	var heights [16][16]int
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			bx := pos.X*16 + x
			bz := pos.Z*16 + z

			biome := g.biomes.BiomeAt(bx, bz)
			c.SetBiome(x, z, biome)

			height := g.terrainHeight(bx, bz, biome)
			heights[x][z] = height

			g.fillColumn(c, x, z, bx, bz, height, biome)
		}
	}

	if err := g.caves.carve(c, pos, &heights); err != nil {
		return nil, &GenerationError{Pass: "carve", Pos: pos, Err: err}
	}

	// Re-dress surfaces after carving so columns opened to the sky still
	// carry their biome materials.
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			surfaceColumn(c, x, z, heights[x][z], c.Biomes[z*16+x])
		}
	}

	if err := placeOres(c, pos, &heights, g.seed); err != nil {
		return nil, &GenerationError{Pass: "ores", Pos: pos, Err: err}
	}
	if err := placeTrees(c, pos, &heights, g.seed); err != nil {
		return nil, &GenerationError{Pass: "trees", Pos: pos, Err: err}
	}

	return c, nil
}

// HeightAt returns the terrain height at a world block coordinate without
// generating the chunk.
func (g *DefaultGenerator) HeightAt(blockX, blockZ int) int {
	biome := g.biomes.BiomeAt(blockX, blockZ)
	return g.terrainHeight(blockX, blockZ, biome)
}

// terrainHeight layers a large-scale terrain field with small-scale detail.
// Biomes scale amplitude and base height differently.
func (g *DefaultGenerator) terrainHeight(bx, bz int, biome byte) int {
	nx := float64(bx) / 128.0
	nz := float64(bz) / 128.0
	base := g.terrain.Octave2D(nx, nz, 6, 0.5)

	dx := float64(bx) / 32.0
	dz := float64(bz) / 32.0
	detail := g.detail.Octave2D(dx, dz, 3, 0.5)

	amplitude, baseHeight := biomeTerrainParams(biome)

	height := baseHeight + base*amplitude + detail*4.0
	h := int(height)
	if h < 1 {
		h = 1
	}
	if h > 250 {
		h = 250
	}
	return h
}

func biomeTerrainParams(biome byte) (amplitude, baseHeight float64) {
	switch biome {
	case biomeOcean:
		return 8.0, 40.0
	case biomePlains, biomeSavanna:
		return 12.0, float64(seaLevel)
	case biomeForest, biomeDarkForest:
		return 16.0, float64(seaLevel) + 2
	case biomeTaiga, biomeSnowyTaiga:
		return 18.0, float64(seaLevel) + 4
	case biomeDesert:
		return 10.0, float64(seaLevel) + 2
	case biomeJungle:
		return 18.0, float64(seaLevel) + 4
	case biomeMountains:
		return 40.0, float64(seaLevel) + 10
	case biomeBeach:
		return 3.0, float64(seaLevel)
	case biomeTundra:
		return 10.0, float64(seaLevel)
	default:
		return 14.0, float64(seaLevel)
	}
}

// fillColumn raises one column: bedrock floor, stone body, surface layers,
// and water up to sea level where the terrain dips below it.
func (g *DefaultGenerator) fillColumn(c *ChunkData, x, z, bx, bz, height int, biome byte) {
	// Bedrock: y=0 always, y=1..3 noise-mixed with stone.
	c.SetBlock(x, 0, z, blockBedrock<<4)
	for y := 1; y <= 3; y++ {
		if g.terrain.Sample2D(float64(bx+y*7)*0.5, float64(bz)*0.5) > 0.0 {
			c.SetBlock(x, y, z, blockBedrock<<4)
		} else {
			c.SetBlock(x, y, z, blockStone<<4)
		}
	}

	stoneTop := height - surfaceDepth(biome)
	if stoneTop < 4 {
		stoneTop = 4
	}
	for y := 4; y <= stoneTop && y <= height; y++ {
		c.SetBlock(x, y, z, blockStone<<4)
	}

	surfaceColumn(c, x, z, height, biome)

	if height < seaLevel {
		for y := height + 1; y <= seaLevel; y++ {
			c.SetBlock(x, y, z, blockWater<<4)
		}
	}
}
