package geo

// Pathfinding configuration.
const (
	MaxPathfindIterations = 7000

	// A* weights.
	WeightStraight = 1.0
	WeightDiagonal = 1.414 // sqrt(2)
	// WeightRough is added when entering rubble or cliff cells.
	WeightRough = 2.0

	// PathMargin is the side clearance of smoothed path segments, in cells.
	PathMargin = 0.25
)

// Terrain defaults.
const (
	DefaultCellSize   = 10.0
	DefaultCliffSlope = 1.5

	// noiseScale is the Perlin noise input step per cell.
	noiseScale = 0.08
)

// NSWE direction bitmask constants.
// 4-bit mask for neighbour directions of a cell.
const (
	NSWEEast  byte = 1 << 0 // 0x01
	NSWEWest  byte = 1 << 1 // 0x02
	NSWESouth byte = 1 << 2 // 0x04
	NSWENorth byte = 1 << 3 // 0x08
	NSWEAll   byte = 0x0F
)
