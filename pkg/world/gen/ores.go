package gen

import "fmt"

// featureRNG is a deterministic stream for discrete feature placement,
// seeded from (world seed, chunk position, feature-kind salt). Placement is
// therefore independent of the order in which chunks or kinds are visited.
type featureRNG struct {
	state int64
}

func newFeatureRNG(seed int64, pos ChunkPos, salt int64) *featureRNG {
	s := seed ^ (int64(pos.X)*341873128712 + int64(pos.Z)*132897987541 + salt)
	return &featureRNG{state: s}
}

func (r *featureRNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

func (r *featureRNG) nextN(n int) int {
	v := int(r.next()>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}

type oreConfig struct {
	block    uint16
	name     string
	minY     int
	maxY     int
	veinSize int // max blocks per vein
	attempts int // veins per chunk
}

var ores = []oreConfig{
	{blockCoalOre, "coal", 0, 128, 12, 20},
	{blockIronOre, "iron", 0, 64, 8, 20},
	{blockGoldOre, "gold", 0, 32, 8, 2},
	{blockDiamond, "diamond", 0, 16, 6, 1},
	{blockRedstone, "redstone", 0, 16, 6, 8},
	{blockLapisOre, "lapis", 0, 32, 6, 1},
}

// placeOres scatters ore veins through the stone of one chunk.
func placeOres(c *ChunkData, pos ChunkPos, heights *[16][16]int, seed int64) error {
	rng := newFeatureRNG(seed, pos, saltOres)

	for _, ore := range ores {
		if ore.maxY <= ore.minY {
			return fmt.Errorf("ore %s has empty y range [%d,%d)", ore.name, ore.minY, ore.maxY)
		}
		for range ore.attempts {
			x := rng.nextN(16)
			y := ore.minY + rng.nextN(ore.maxY-ore.minY)
			z := rng.nextN(16)

			if y >= heights[x][z] {
				continue
			}
			placeVein(c, x, y, z, ore.block, ore.veinSize, heights, rng)
		}
	}
	return nil
}

// placeVein grows a vein by random walk, replacing stone only.
func placeVein(c *ChunkData, cx, cy, cz int, blockID uint16, size int, heights *[16][16]int, rng *featureRNG) {
	for range size {
		if cx >= 0 && cx < 16 && cz >= 0 && cz < 16 && cy >= 1 && cy < heights[cx][cz] {
			if c.GetBlock(cx, cy, cz) == blockStone<<4 {
				c.SetBlock(cx, cy, cz, blockID<<4)
			}
		}

		switch rng.nextN(6) {
		case 0:
			cx++
		case 1:
			cx--
		case 2:
			cy++
		case 3:
			cy--
		case 4:
			cz++
		case 5:
			cz--
		}
	}
}
