package locomotor

import "github.com/udisondev/rtsloco/internal/model"

// PhysicsBody is the physics integration a locomotor drives.
type PhysicsBody = model.PhysicsBody

// Object is the game object a locomotor moves.
type Object interface {
	Position() model.Coord3D
	SetPosition(pos model.Coord3D)
	Orientation() float64
	SetOrientation(angle float64)
	Physics() model.PhysicsBody
	DamageState() model.DamageState
	Layer() model.Layer
	TestStatus(s model.ObjectStatus) bool
	SetStatus(s model.ObjectStatus, on bool)
	IsKindOf(k model.KindOf) bool
	CarrierDeckHeight() float64
	MajorRadius() float64
	SetModelCondition(c model.ModelCondition)
	ClearModelCondition(c model.ModelCondition)
}

// Terrain answers height queries.
type Terrain interface {
	// IsUnderwater reports whether (x, y) is submerged and the water and ground heights there.
	IsUnderwater(x, y float64) (underwater bool, waterZ, groundZ float64)
	LayerHeight(x, y float64, layer model.Layer) float64
	HighestLayerHeight(x, y float64) float64
	GroundHeight(x, y float64) float64
}

// Pathfinder answers terrain validity queries.
type Pathfinder interface {
	ValidMovementTerrain(layer model.Layer, surfaces model.SurfaceMask, pos model.Coord3D) bool
}

// Globals is the global simulation tuning.
type Globals interface {
	// Gravity is the vertical acceleration per frame², negative is down.
	Gravity() float64
	MovementPenaltyDamageState() model.DamageState
	FrameRate() int
}

// Clock is the logic frame counter.
type Clock interface {
	Frame() uint32
}

// Random is the deterministic logic random source.
type Random interface {
	Real(lo, hi float64) float64
	Int(lo, hi int) int
}

// Services bundles the collaborators every locomotor of a store uses.
type Services struct {
	Terrain    Terrain
	Pathfinder Pathfinder
	Globals    Globals
	Clock      Clock
	Random     Random
}
