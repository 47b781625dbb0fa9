package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// moveStrategy steers obj toward goal for one tick by applying motive force
// and turning the object. onPathDist is the remaining path length.
type moveStrategy func(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64)

// moveStrategies maps each appearance to its motion strategy.
var moveStrategies = [appearanceCount]moveStrategy{
	AppearanceTwoLegs:    moveLegs,
	AppearanceFourWheels: moveWheels,
	AppearanceTreads:     moveTreads,
	AppearanceHover:      moveHover,
	AppearanceThrust:     moveThrust,
	AppearanceWings:      moveWings,
	AppearanceClimber:    moveClimb,
	AppearanceOther:      moveOther,
	AppearanceMotorcycle: moveWheels,
}

func (l *Locomotor) strategyFor(a Appearance) moveStrategy {
	if a < 0 || a >= appearanceCount || moveStrategies[a] == nil {
		return moveOther
	}
	return moveStrategies[a]
}

// headingEpsilon is the heading error treated as facing the target.
const headingEpsilon = 1e-4

// goalHeading returns the XY heading from obj to goal, or the current
// orientation when the goal is straight below or above.
func goalHeading(obj Object, goal model.Coord3D) float64 {
	pos := obj.Position()
	if pos.Distance2D(goal) < correctionEpsilon {
		return obj.Orientation()
	}
	return pos.HeadingTo(goal)
}

// turnTowards rotates obj toward heading by at most rate and reports the turn
// to the body. Returns the heading error left after turning.
func turnTowards(obj Object, body PhysicsBody, heading, rate float64) (model.TurnType, float64) {
	cur := obj.Orientation()
	diff := model.NormalizeAngle(heading - cur)
	if math.Abs(diff) < headingEpsilon || rate <= 0 {
		return model.TurnNone, diff
	}

	step := math.Max(-rate, math.Min(rate, diff))
	obj.SetOrientation(cur + step)

	turn := model.TurnPositive
	if step < 0 {
		turn = model.TurnNegative
	}
	body.SetTurning(turn)
	return turn, diff - step
}

// approachSpeed limits the speed so the object can stop within dist.
// Sets the braking flag when the limit applies.
func (l *Locomotor) approachSpeed(dist, desiredSpeed float64) float64 {
	speed := desiredSpeed
	if !l.flags.Has(FlagNoSlowDownAsApproachingDest) {
		braking := l.Braking() * l.brakingFactor
		if braking > 0 {
			allowed := math.Sqrt(2 * braking * math.Max(dist, 0))
			if allowed < speed {
				speed = allowed
				l.flags.set(FlagIsBraking, true)
			}
		}
	}

	switch l.template.appearance {
	case AppearanceWings, AppearanceThrust:
		speed = math.Max(speed, l.template.minSpeed)
	}
	return speed
}

// forward returns the unit XY vector of heading h.
func forward(h float64) model.Coord3D {
	return model.Coord3D{X: math.Cos(h), Y: math.Sin(h)}
}

// driveAlong applies the motive force that brings the XY speed along dir to
// target within this frame's acceleration and braking limits. traction in
// [0, 1] is the share of sideways velocity cancelled.
func (l *Locomotor) driveAlong(obj Object, body PhysicsBody, dir model.Coord3D, target, traction float64) {
	damage := obj.DamageState()
	accel := l.MaxAcceleration(damage)
	braking := l.Braking() * l.brakingFactor

	vel := body.Velocity()
	along := vel.X*dir.X + vel.Y*dir.Y

	// speeding up away from zero uses acceleration, slowing toward zero uses braking
	dv := target - along
	limit := accel
	if math.Abs(target) < math.Abs(along) || target*along < 0 {
		limit = braking
	}
	dv = math.Max(-limit, math.Min(limit, dv))

	force := dir.Scale(dv)
	if traction > 0 {
		lateral := model.Coord3D{X: vel.X - dir.X*along, Y: vel.Y - dir.Y*along}
		grip := lateral.Scale(-traction)
		if n := grip.Length2D(); n > accel && n > 0 {
			grip = grip.Scale(accel / n)
		}
		force = force.Add(grip)
	}

	if f := l.template.extra2DFriction; f > 0 && (l.template.apply2DFrictionWhenAirborne || !l.isAirborne(obj)) {
		force.X -= vel.X * f
		force.Y -= vel.Y * f
	}

	body.ApplyMotiveForce(force.Scale(body.Mass()))
}

// moveOther turns toward the goal and thrusts along the heading.
func moveOther(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	rate := l.MaxTurnRate(obj.DamageState())
	_, remaining := turnTowards(obj, body, goalHeading(obj, goal), rate)

	speed := l.approachSpeed(onPathDist, desiredSpeed)
	speed *= math.Max(math.Cos(remaining), 0)
	l.driveAlong(obj, body, forward(obj.Orientation()), speed, 0.5)
}

// moveHover flies like moveOther and tracks whether the hover craft is over water.
func moveHover(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	moveOther(l, obj, body, goal, onPathDist, desiredSpeed)

	pos := obj.Position()
	underwater, _, _ := l.svc.Terrain.IsUnderwater(pos.X, pos.Y)
	switch {
	case underwater && !l.flags.Has(FlagOverWater):
		l.flags.set(FlagOverWater, true)
		obj.SetModelCondition(model.ModelConditionOverWater)
	case !underwater && l.flags.Has(FlagOverWater):
		l.flags.set(FlagOverWater, false)
		obj.ClearModelCondition(model.ModelConditionOverWater)
	}
}

// moveWings fully delegates to moveOther.
func moveWings(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	moveOther(l, obj, body, goal, onPathDist, desiredSpeed)
}
