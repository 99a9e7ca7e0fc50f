package gen

// placeTrees plants trees and scatters vegetation appropriate to each
// column's biome, using the tree feature stream.
func placeTrees(c *ChunkData, pos ChunkPos, heights *[16][16]int, seed int64) error {
	rng := newFeatureRNG(seed, pos, saltTrees)

	// Tree density follows the biome at the chunk center.
	centerBiome := c.Biomes[8*16+8]

	for range treesForBiome(centerBiome) {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y := heights[x][z]

		if y <= seaLevel || y >= 250 {
			continue
		}
		if c.GetBlock(x, y, z) != blockGrass<<4 {
			continue
		}

		plantTree(c, x, y+1, z, c.Biomes[z*16+x], rng)
	}

	placeVegetation(c, heights, rng)
	return nil
}

func treesForBiome(biome byte) int {
	switch biome {
	case biomeDesert, biomeOcean, biomeBeach:
		return 0
	case biomePlains, biomeSavanna:
		return 1
	case biomeTundra, biomeSnowyTaiga:
		return 4
	case biomeTaiga:
		return 6
	case biomeForest:
		return 8
	case biomeDarkForest:
		return 10
	case biomeJungle:
		return 12
	default:
		return 2
	}
}

func plantTree(c *ChunkData, x, baseY, z int, biome byte, rng *featureRNG) {
	switch biome {
	case biomeTaiga, biomeSnowyTaiga:
		plantConifer(c, x, baseY, z, rng)
	case biomeForest, biomeDarkForest:
		if rng.nextN(3) == 0 {
			plantCanopyTree(c, x, baseY, z, rng, blockLog<<4|logBirch, blockLeaves<<4|leavesBirch, 5, 2)
		} else {
			plantCanopyTree(c, x, baseY, z, rng, blockLog<<4|logOak, blockLeaves<<4|leavesOak, 4, 3)
		}
	default:
		plantCanopyTree(c, x, baseY, z, rng, blockLog<<4|logOak, blockLeaves<<4|leavesOak, 4, 3)
	}
}

// plantCanopyTree places a trunk with a rounded leaf canopy. Leaves are
// clipped at chunk borders rather than spilling into neighbors, which keeps
// generation per-chunk and order independent.
func plantCanopyTree(c *ChunkData, x, baseY, z int, rng *featureRNG, log, leaves uint16, minTrunk, trunkVar int) {
	trunkHeight := minTrunk + rng.nextN(trunkVar)

	if baseY+trunkHeight+2 > 255 {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		setIfInBounds(c, x, y, z, log)
	}

	leafBase := baseY + trunkHeight - 2
	for dy := 0; dy < 4; dy++ {
		y := leafBase + dy
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				lx, lz := x+dx, z+dz
				if lx < 0 || lx >= 16 || lz < 0 || lz >= 16 {
					continue
				}
				// Keep the trunk.
				if dx == 0 && dz == 0 && dy < trunkHeight-(leafBase-baseY) {
					continue
				}
				// Clip corners for a rounded shape.
				if radius == 2 && abs(dx) == 2 && abs(dz) == 2 && rng.nextN(2) == 0 {
					continue
				}
				if c.GetBlock(lx, y, lz) == 0 {
					c.SetBlock(lx, y, lz, leaves)
				}
			}
		}
	}
}

// plantConifer places a spruce-style tree with a conical canopy.
func plantConifer(c *ChunkData, x, baseY, z int, rng *featureRNG) {
	trunkHeight := 6 + rng.nextN(4)

	if baseY+trunkHeight+1 > 255 {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		setIfInBounds(c, x, y, z, blockLog<<4|logSpruce)
	}

	// Widest at the bottom, narrowing upward; wider tiers on alternate rows.
	for dy := 1; dy <= trunkHeight; dy++ {
		y := baseY + dy
		radius := (trunkHeight - dy) / 2
		if radius > 3 {
			radius = 3
		}
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				lx, lz := x+dx, z+dz
				if lx < 0 || lx >= 16 || lz < 0 || lz >= 16 {
					continue
				}
				if dx == 0 && dz == 0 {
					continue
				}
				if c.GetBlock(lx, y, lz) == 0 {
					c.SetBlock(lx, y, lz, blockLeaves<<4|leavesSpruce)
				}
			}
		}
	}

	if topY := baseY + trunkHeight; topY < 256 {
		c.SetBlock(x, topY, z, blockLeaves<<4|leavesSpruce)
	}
}

// placeVegetation scatters tall grass, flowers, cacti, and dead bushes.
func placeVegetation(c *ChunkData, heights *[16][16]int, rng *featureRNG) {
	for range 20 {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y := heights[x][z]
		if y <= seaLevel || y >= 255 {
			continue
		}
		biome := c.Biomes[z*16+x]
		topBlock := c.GetBlock(x, y, z)

		switch biome {
		case biomeDesert:
			if topBlock != blockSand<<4 {
				continue
			}
			if rng.nextN(8) == 0 {
				// Cactus, 1-3 blocks tall.
				h := 1 + rng.nextN(3)
				for dy := 1; dy <= h && y+dy < 256; dy++ {
					c.SetBlock(x, y+dy, z, blockCactus<<4)
				}
			} else if rng.nextN(4) == 0 {
				c.SetBlock(x, y+1, z, blockDeadBush<<4)
			}

		case biomePlains, biomeForest, biomeDarkForest, biomeSavanna, biomeJungle:
			if topBlock != blockGrass<<4 {
				continue
			}
			if rng.nextN(3) == 0 {
				// Metadata 1 = tall grass, not dead shrub.
				c.SetBlock(x, y+1, z, blockTallGrass<<4|1)
			} else if rng.nextN(8) == 0 {
				c.SetBlock(x, y+1, z, blockFlower<<4)
			}

		case biomeTaiga, biomeSnowyTaiga, biomeTundra:
			if topBlock != blockGrass<<4 {
				continue
			}
			if rng.nextN(6) == 0 {
				c.SetBlock(x, y+1, z, blockTallGrass<<4|1)
			}
		}
	}
}
