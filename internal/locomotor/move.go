package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

const (
	// minBrakingCheckDist is the path distance below which braking is never cancelled.
	minBrakingCheckDist = 10.0

	// correctionEpsilon is the goal distance below which no position nudge happens.
	correctionEpsilon = 0.001
)

// MoveTowardsPosition runs one tick of movement toward goal and returns the
// updated blocked flag. onPathDist is the remaining distance along the
// planned path; blocked is true while the object is turning to face the goal.
//
// Nothing here returns an error: per-tick conditions are resolved locally and
// the only outcome is the blocked flag and the object's position and forces.
func (l *Locomotor) MoveTowardsPosition(obj Object, goal model.Coord3D, onPathDist, desiredSpeed float64, blocked bool) bool {
	l.flags.set(FlagMaintainPosIsValid, false)

	damage := obj.DamageState()
	maxSpeed := l.MaxSpeedForCondition(damage)
	if desiredSpeed > maxSpeed {
		desiredSpeed = maxSpeed
	}

	stopDist := maxSpeed / l.Braking() * maxSpeed / 2
	if onPathDist > minBrakingCheckDist && onPathDist > stopDist {
		l.flags.set(FlagIsBraking, false)
		l.brakingFactor = 1
	}

	body := obj.Physics()
	if body == nil {
		assertFailed("locomotor applied to object without physics", "template", l.template.name)
		return blocked
	}
	if body.IsStunned() {
		return blocked
	}

	if !l.positionUsable(obj, body) {
		return blocked
	}

	pos := obj.Position()
	delta := goal.Sub(pos)
	pathDist := delta.Length2D()
	// a straight line and path estimate more than 2x apart means a sharp cut near the goal
	if !obj.IsKindOf(model.KindProjectile) && (2*onPathDist < pathDist || 2*pathDist < onPathDist) {
		l.flags.set(FlagIsBraking, true)
	}
	if pathDist > onPathDist {
		onPathDist = pathDist
	}

	airborne := l.isAirborne(obj)
	canFly := l.template.surfaces.Has(model.SurfaceAir)

	body.ApplyMotiveForce(model.Coord3D{})

	if blocked {
		if body.VelocityMagnitude() < desiredSpeed {
			blocked = false
		}
		if airborne && canFly {
			blocked = false
		}
	}

	if blocked {
		body.ScrubVelocity2D(desiredSpeed)
		rate := l.MaxTurnRate(damage)
		if l.template.wanderWidthFactor == 0 {
			blocked = l.rotateObjAroundLocoPivot(obj, body, goal, rate) != model.TurnNone
		}
		l.handleBehaviorZ(obj, body, goal)
		return blocked
	}

	if l.template.appearance == AppearanceWings {
		l.flags.set(FlagIsBraking, false)
	}

	wasBraking := obj.TestStatus(model.StatusIsBraking)
	body.SetTurning(model.TurnNone)

	if l.template.allowMotiveForceWhileAirborne || !airborne {
		l.strategyFor(l.template.appearance)(l, obj, body, goal, onPathDist, desiredSpeed)
	}

	l.handleBehaviorZ(obj, body, goal)
	obj.SetStatus(model.StatusIsBraking, l.flags.Has(FlagIsBraking))

	if wasBraking {
		l.correctBrakingDrift(obj, body, delta, pathDist)
	}
	return blocked
}

// positionUsable reports whether the object may move this tick. Objects on
// invalid terrain get a repair push instead, unless repair has nothing to do.
func (l *Locomotor) positionUsable(obj Object, body PhysicsBody) bool {
	if l.template.surfaces.Has(model.SurfaceAir) {
		return true
	}
	if l.svc.Pathfinder.ValidMovementTerrain(obj.Layer(), l.template.surfaces, obj.Position()) {
		return true
	}
	if l.flags.Has(FlagAllowInvalidPosition) {
		return true
	}
	return !l.fixInvalidPosition(obj, body)
}

// correctBrakingDrift moves the object straight toward the goal by its
// current speed, at least one frame of travel and at most the remaining distance.
// delta and dist2D describe the goal as seen before the strategy ran.
func (l *Locomotor) correctBrakingDrift(obj Object, body PhysicsBody, delta model.Coord3D, dist2D float64) {
	pos := obj.Position()
	step := l.frameStep()

	if obj.IsKindOf(model.KindProjectile) {
		obj.SetStatus(model.StatusIsBraking, true)
		dist := delta.Length()
		mag := max(body.VelocityMagnitude(), step)
		mag = min(mag, dist)
		if dist > correctionEpsilon {
			pos = pos.Add(delta.Scale(mag / dist))
		}
	} else if dist2D > correctionEpsilon {
		mag := max(math.Abs(body.ForwardSpeed2D()), step)
		mag = min(mag, dist2D)
		pos.X += delta.X / dist2D * mag
		pos.Y += delta.Y / dist2D * mag
	}

	obj.SetPosition(pos)
}
