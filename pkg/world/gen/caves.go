package gen

import "fmt"

// carver subtracts cave volumes using two independent 3D noise fields.
type carver struct {
	field1 *Noise
	field2 *Noise
}

func newCarver(seed int64) *carver {
	return &carver{
		field1: NewNoise(seed + saltCaves1),
		field2: NewNoise(seed + saltCaves2),
	}
}

// carve removes blocks to form caves. Bedrock and the top surface layers
// are left intact; carved cells below the lava level fill with lava.
func (cv *carver) carve(c *ChunkData, pos ChunkPos, heights *[16][16]int) error {
	const (
		threshold = 0.55
		lavaLevel = 10
	)

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			bx := float64(pos.X*16 + x)
			bz := float64(pos.Z*16 + z)
			maxY := heights[x][z]
			if maxY > 255 {
				return fmt.Errorf("column (%d,%d) height %d out of range", x, z, maxY)
			}
			if maxY < 5 {
				continue
			}

			for y := 4; y < maxY-4; y++ {
				by := float64(y)

				n1 := cv.field1.Sample3D(bx/32.0, by/24.0, bz/32.0)
				n2 := cv.field2.Sample3D(bx/48.0, by/32.0, bz/48.0)

				if (n1+n2)/2.0 > threshold {
					if y < lavaLevel {
						c.SetBlock(x, y, z, blockLava<<4)
					} else {
						c.SetBlock(x, y, z, blockAir<<4)
					}
				}
			}
		}
	}
	return nil
}
