package gen

// surfaceColumn replaces the topmost solid layers of one column with the
// biome's surface materials.
func surfaceColumn(c *ChunkData, x, z, height int, biome byte) {
	switch biome {
	case biomeDesert:
		// Sand on top, sandstone below.
		for y := height; y > height-4 && y > 3; y-- {
			c.SetBlock(x, y, z, blockSand<<4)
		}
		if height-4 > 3 {
			c.SetBlock(x, height-4, z, blockSandstone<<4)
		}
		if height-5 > 3 {
			c.SetBlock(x, height-5, z, blockSandstone<<4)
		}

	case biomeOcean:
		// Gravel floor over dirt.
		for y := height; y > height-3 && y > 3; y-- {
			c.SetBlock(x, y, z, blockGravel<<4)
		}
		for y := height - 3; y > height-5 && y > 3; y-- {
			c.SetBlock(x, y, z, blockDirt<<4)
		}

	case biomeBeach:
		for y := height; y > height-4 && y > 3; y-- {
			c.SetBlock(x, y, z, blockSand<<4)
		}
		if height-4 > 3 {
			c.SetBlock(x, height-4, z, blockSandstone<<4)
		}

	case biomeMountains:
		if height > 100 {
			// Bare stone peaks above the tree line.
			for y := height; y > height-4 && y > 3; y-- {
				c.SetBlock(x, y, z, blockStone<<4)
			}
		} else {
			grassColumn(c, x, z, height)
		}

	default:
		grassColumn(c, x, z, height)
	}
}

// grassColumn is the standard surface: grass on top, dirt below, dirt
// instead of grass when the column ends underwater.
func grassColumn(c *ChunkData, x, z, height int) {
	if height <= 3 {
		return
	}
	if height > seaLevel {
		c.SetBlock(x, height, z, blockGrass<<4)
	} else {
		c.SetBlock(x, height, z, blockDirt<<4)
	}
	for y := height - 1; y > height-4 && y > 3; y-- {
		c.SetBlock(x, y, z, blockDirt<<4)
	}
}

// surfaceDepth returns how many blocks of surface material sit below the
// top block.
func surfaceDepth(biome byte) int {
	if biome == biomeDesert {
		return 5 // deep sand
	}
	return 4
}
