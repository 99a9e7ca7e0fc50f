package gen

// Block IDs and metadata values used by the generators. Classic numeric IDs;
// a block state is blockID<<4 | metadata.
const (
	blockAir       = 0
	blockStone     = 1
	blockGrass     = 2
	blockDirt      = 3
	blockBedrock   = 7
	blockWater     = 9 // stationary water
	blockLava      = 11
	blockSand      = 12
	blockGravel    = 13
	blockGoldOre   = 14
	blockIronOre   = 15
	blockCoalOre   = 16
	blockLog       = 17
	blockLeaves    = 18
	blockLapisOre  = 21
	blockSandstone = 24
	blockTallGrass = 31
	blockDeadBush  = 32
	blockFlower    = 38
	blockDiamond   = 56
	blockRedstone  = 73
	blockCactus    = 81

	// Log/leaves variants (metadata).
	logOak       = 0
	logSpruce    = 1
	logBirch     = 2
	leavesOak    = 0
	leavesSpruce = 1
	leavesBirch  = 2

	seaLevel = 62
)

// Biome IDs.
const (
	biomeOcean      byte = 0
	biomePlains     byte = 1
	biomeDesert     byte = 2
	biomeMountains  byte = 3
	biomeForest     byte = 4
	biomeTaiga      byte = 5
	biomeTundra     byte = 12
	biomeBeach      byte = 16
	biomeJungle     byte = 21
	biomeDarkForest byte = 29
	biomeSnowyTaiga byte = 30
	biomeSavanna    byte = 35
)

// Per-concern seed salts. Every noise field and feature stream derives from
// the world seed plus exactly one of these, so streams never correlate.
const (
	saltDetail = 1
	saltTemp   = 100
	saltRain   = 200
	saltCaves1 = 300
	saltCaves2 = 400
	saltOres   = 500
	saltTrees  = 600
)
