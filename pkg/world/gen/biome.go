package gen

// biomeSource assigns biomes from temperature and rainfall noise fields.
// BiomeAt is a pure function of the seed and block position.
type biomeSource struct {
	temp    *Noise
	rain    *Noise
	terrain *Noise
}

func newBiomeSource(seed int64) *biomeSource {
	return &biomeSource{
		temp:    NewNoise(seed + saltTemp),
		rain:    NewNoise(seed + saltRain),
		terrain: NewNoise(seed),
	}
}

// BiomeAt returns the biome ID at world block coordinates.
func (b *biomeSource) BiomeAt(bx, bz int) byte {
	// Large-scale climate fields.
	tx := float64(bx) / 512.0
	tz := float64(bz) / 512.0
	temp := b.temp.Octave2D(tx, tz, 4, 0.5)*0.8 + 0.75
	rain := b.rain.Octave2D(tx+100, tz+100, 4, 0.5)*0.5 + 0.5

	// Ocean and beach depend on the raw terrain field, not climate.
	nx := float64(bx) / 128.0
	nz := float64(bz) / 128.0
	base := b.terrain.Octave2D(nx, nz, 6, 0.5)
	height := 62.0 + base*8.0
	if height < float64(seaLevel)-8 {
		return biomeOcean
	}
	if height < float64(seaLevel)-2 {
		return biomeBeach
	}

	return climateBiome(temp, rain)
}

// climateBiome maps temperature and rainfall to a land biome.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6)  | Wet (>0.6)
//	Cold <0.3     | Tundra        | Snowy Taiga       | Taiga
//	Mild 0.3-0.7  | Plains        | Forest            | Dark Forest
//	Warm 0.7-1.2  | Savanna       | Plains            | Jungle
//	Hot >1.2      | Desert        | Desert            | Jungle
func climateBiome(temp, rain float64) byte {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return biomeTundra
		case rain < 0.6:
			return biomeSnowyTaiga
		default:
			return biomeTaiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return biomePlains
		case rain < 0.6:
			return biomeForest
		default:
			return biomeDarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return biomeSavanna
		case rain < 0.6:
			return biomePlains
		default:
			return biomeJungle
		}
	default:
		if rain > 0.6 {
			return biomeJungle
		}
		return biomeDesert
	}
}
