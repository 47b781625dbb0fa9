package model

// SurfaceMask is the set of surface classes a locomotor may travel on.
type SurfaceMask uint32

const (
	SurfaceGround SurfaceMask = 1 << iota
	SurfaceWater
	SurfaceCliff
	SurfaceAir
	SurfaceRubble
)

// SurfaceNames is the data-file spelling table, bit i maps to SurfaceNames[i].
var SurfaceNames = []string{"GROUND", "WATER", "CLIFF", "AIR", "RUBBLE"}

// Has reports whether every bit in s is set.
func (m SurfaceMask) Has(s SurfaceMask) bool {
	return m&s == s
}

// Intersects reports whether any bit in s is set.
func (m SurfaceMask) Intersects(s SurfaceMask) bool {
	return m&s != 0
}
