package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// circleStep is how far ahead on the circle, in radians, a circling flyer aims.
const circleStep = 0.5

// MaintainCurrentPosition makes obj hold station where it is now.
// Any following MoveTowardsPosition cancels it.
func (l *Locomotor) MaintainCurrentPosition(obj Object) {
	l.maintainPos = obj.Position()
	l.flags.set(FlagMaintainPosIsValid, true)
}

// UpdateMaintainCurrentPosition runs one tick of station keeping. Ground
// units bleed off horizontal speed, WINGS circle the point at the circling
// radius and everything else hovers; the vertical policy always runs.
func (l *Locomotor) UpdateMaintainCurrentPosition(obj Object) {
	body := obj.Physics()
	if body == nil {
		assertFailed("locomotor applied to object without physics", "template", l.template.name)
		return
	}
	if body.IsStunned() {
		return
	}

	if !l.flags.Has(FlagMaintainPosIsValid) {
		l.MaintainCurrentPosition(obj)
	}

	l.flags.set(FlagIsBraking, false)
	l.brakingFactor = 1
	obj.SetStatus(model.StatusIsBraking, false)
	body.ApplyMotiveForce(model.Coord3D{})
	body.SetTurning(model.TurnNone)

	switch l.template.appearance {
	case AppearanceWings, AppearanceThrust:
		l.circle(obj, body)
	default:
		body.ScrubVelocity2D(0)
	}

	l.handleBehaviorZ(obj, body, l.maintainPos)
}

// circle flies around the maintain point. A negative circling radius circles clockwise.
func (l *Locomotor) circle(obj Object, body PhysicsBody) {
	damage := obj.DamageState()
	speed := math.Max(l.MaxSpeedForCondition(damage)*0.5, l.template.minSpeed)

	radius := l.template.circlingRadius
	dirSign := 1.0
	if radius < 0 {
		radius, dirSign = -radius, -1
	}
	if radius == 0 {
		if rate := l.MaxTurnRate(damage); rate > 0 {
			radius = speed / rate
		}
		radius = math.Max(radius, l.closeEnoughDist)
	}

	pos := obj.Position()
	center := l.maintainPos
	if pos.Distance2D(center) > correctionEpsilon {
		l.circleAngle = center.HeadingTo(pos)
	}
	aim := l.circleAngle + dirSign*circleStep
	goal := model.Coord3D{
		X: center.X + radius*math.Cos(aim),
		Y: center.Y + radius*math.Sin(aim),
		Z: center.Z,
	}

	l.flags.set(FlagNoSlowDownAsApproachingDest, true)
	moveOther(l, obj, body, goal, pos.Distance2D(goal), speed)
	l.flags.set(FlagNoSlowDownAsApproachingDest, false)
}
