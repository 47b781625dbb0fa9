package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// zPolicy adjusts altitude for one tick after the horizontal strategy ran.
type zPolicy func(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D)

// zPolicies maps each BehaviorZ to its vertical-motion policy.
var zPolicies = [behaviorZCount]zPolicy{
	BehaviorZNoMotiveForce:                     zNone,
	BehaviorZSeaLevel:                          zSeaLevel,
	BehaviorZSurfaceRelativeHeight:             zSurfaceRelative,
	BehaviorZAbsoluteHeight:                    zAbsolute,
	BehaviorZFixedSurfaceRelativeHeight:        zFixedSurfaceRelative,
	BehaviorZFixedAbsoluteHeight:               zFixedAbsolute,
	BehaviorZFixedRelativeToGroundAndBuildings: zFixedGroundAndBuildings,
	BehaviorZRelativeToHighestLayer:            zRelativeToHighestLayer,
}

// handleBehaviorZ runs the vertical-motion policy of the template.
func (l *Locomotor) handleBehaviorZ(obj Object, body PhysicsBody, goal model.Coord3D) {
	bz := l.template.behaviorZ
	if bz < 0 || bz >= behaviorZCount || zPolicies[bz] == nil {
		bz = BehaviorZNoMotiveForce
	}
	zPolicies[bz](l, obj, body, goal)
}

// zNone applies no lift. Stick-to-ground locomotors are pinned to their layer.
func zNone(l *Locomotor, obj Object, _ PhysicsBody, _ model.Coord3D) {
	if !l.template.stickToGround {
		return
	}
	pos := obj.Position()
	pos.Z = l.svc.Terrain.LayerHeight(pos.X, pos.Y, obj.Layer())
	obj.SetPosition(pos)
}

// zSeaLevel floats on water, or on ground where dry.
func zSeaLevel(l *Locomotor, obj Object, body PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	l.liftToward(obj, body, l.SurfaceHeightAt(pos.X, pos.Y))
}

// zSurfaceRelative holds the preferred height above water or ground.
func zSurfaceRelative(l *Locomotor, obj Object, body PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	l.liftToward(obj, body, l.SurfaceHeightAt(pos.X, pos.Y)+l.preferredHeight)
}

// zAbsolute holds the preferred height above zero.
func zAbsolute(l *Locomotor, obj Object, body PhysicsBody, _ model.Coord3D) {
	l.liftToward(obj, body, l.preferredHeight)
}

// zFixedSurfaceRelative places the object at the preferred height above the surface.
func zFixedSurfaceRelative(l *Locomotor, obj Object, _ PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	pos.Z = l.SurfaceHeightAt(pos.X, pos.Y) + l.preferredHeight
	obj.SetPosition(pos)
}

// zFixedAbsolute places the object at the preferred height.
func zFixedAbsolute(l *Locomotor, obj Object, _ PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	pos.Z = l.preferredHeight
	obj.SetPosition(pos)
}

// zFixedGroundAndBuildings places the object at the preferred height above
// the highest of ground and anything built on it.
func zFixedGroundAndBuildings(l *Locomotor, obj Object, _ PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	pos.Z = l.svc.Terrain.HighestLayerHeight(pos.X, pos.Y) + l.preferredHeight
	obj.SetPosition(pos)
}

// zRelativeToHighestLayer holds the preferred height above the highest layer.
func zRelativeToHighestLayer(l *Locomotor, obj Object, body PhysicsBody, _ model.Coord3D) {
	pos := obj.Position()
	l.liftToward(obj, body, l.svc.Terrain.HighestLayerHeight(pos.X, pos.Y)+l.preferredHeight)
}

// liftToward applies lift so the object approaches targetZ. The wanted
// vertical speed is the gap scaled by the preferred height damping and capped
// by speedLimitZ; lift is clamped to [0, MaxLift] and compensates gravity.
func (l *Locomotor) liftToward(obj Object, body PhysicsBody, targetZ float64) {
	if l.flags.Has(FlagPreciseZPos) {
		pos := obj.Position()
		pos.Z = targetZ
		obj.SetPosition(pos)
		return
	}

	maxLift := l.MaxLift(obj.DamageState())
	if maxLift <= 0 {
		return
	}

	limitZ := l.template.speedLimitZ
	want := (targetZ - obj.Position().Z) * l.preferredHeightDamping
	want = math.Max(-limitZ, math.Min(limitZ, want))

	need := want - body.Velocity().Z - l.svc.Globals.Gravity()
	lift := math.Max(0, math.Min(maxLift, need))
	if lift == 0 {
		return
	}
	body.ApplyForce(model.Coord3D{Z: lift * body.Mass()})
}
