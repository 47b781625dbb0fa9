package model

// ObjectStatus is a bitmask of transient object status bits.
type ObjectStatus uint32

const (
	// StatusIsBraking is set while the locomotor is decelerating towards its goal.
	StatusIsBraking ObjectStatus = 1 << iota
	// StatusDeckHeightOffset marks objects parked on a carrier deck.
	StatusDeckHeightOffset
	// StatusDestroyed marks dead objects.
	StatusDestroyed
	// StatusAirborneTarget marks objects high enough to be targeted as aircraft.
	StatusAirborneTarget
)

// KindOf classifies objects for behaviour that depends on what an object is.
type KindOf uint32

const (
	KindInfantry KindOf = 1 << iota
	KindVehicle
	KindAircraft
	KindProjectile
	KindStructure
)

// ModelCondition is a bitmask of visual model states driven by simulation.
type ModelCondition uint32

const (
	ModelConditionOverWater ModelCondition = 1 << iota
	ModelConditionMoving
	ModelConditionTurning
)

// Layer is the pathfinding layer an object is placed on.
type Layer int32

const (
	// LayerInvalid means no layer assigned.
	LayerInvalid Layer = iota
	// LayerGround is the terrain surface.
	LayerGround
	// LayerBridge is the deck of a bridge spanning terrain.
	LayerBridge
)

// String returns human-readable layer name
func (l Layer) String() string {
	switch l {
	case LayerGround:
		return "GROUND"
	case LayerBridge:
		return "BRIDGE"
	default:
		return "INVALID"
	}
}
