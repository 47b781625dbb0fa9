package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/model"
)

const (
	// legsTurnInPlaceAngle is the heading error above which legged units stop and turn.
	legsTurnInPlaceAngle = 45 * math.Pi / 180
	// treadsPivotAngle is the heading error above which tracked units pivot in place.
	treadsPivotAngle = 60 * math.Pi / 180
	// reverseMaxDist is how far behind, in major radii, a wheeled unit will back up to a goal.
	reverseMaxDist = 4.0
	// minClimbScale is the slowest a climber gets on a steep slope.
	minClimbScale = 0.25
)

// wanderHeading perturbs heading with the wander angle, flipping side every
// wander period. Wander starts once the move frame has passed.
func (l *Locomotor) wanderHeading(heading float64) float64 {
	width := l.template.wanderWidthFactor
	if width == 0 || l.svc.Clock.Frame() < l.moveFrame {
		return heading
	}

	if l.wanderFrames <= 0 {
		l.flags.set(FlagWanderDirection, !l.flags.Has(FlagWanderDirection))
		period := l.wanderLength * l.template.wanderLengthFactor * float64(l.svc.Globals.FrameRate())
		l.wanderFrames = max(int(period), 1)
	}
	l.wanderFrames--

	offset := l.wanderAngle * width
	if !l.flags.Has(FlagWanderDirection) {
		offset = -offset
	}
	return heading + offset
}

// moveLegs turns in place while facing well away from the goal, otherwise walks.
func moveLegs(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	l.walk(obj, body, goal, onPathDist, desiredSpeed, 1)
}

// moveClimb walks like legs but slows down on slopes ahead.
func moveClimb(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	pos := obj.Position()
	probe := math.Max(obj.MajorRadius(), 1)
	ahead := pos.Add(forward(obj.Orientation()).Scale(probe))

	rise := l.svc.Terrain.GroundHeight(ahead.X, ahead.Y) - l.svc.Terrain.GroundHeight(pos.X, pos.Y)
	slope := math.Abs(rise) / probe
	scale := math.Max(1/(1+slope), minClimbScale)

	l.walk(obj, body, goal, onPathDist, desiredSpeed, scale)
}

func (l *Locomotor) walk(obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed, scale float64) {
	heading := l.wanderHeading(goalHeading(obj, goal))
	rate := l.MaxTurnRate(obj.DamageState())
	_, remaining := turnTowards(obj, body, heading, rate)

	speed := 0.0
	if math.Abs(remaining) <= legsTurnInPlaceAngle {
		speed = l.approachSpeed(onPathDist, desiredSpeed) * math.Cos(remaining) * scale
	}
	l.driveAlong(obj, body, forward(obj.Orientation()), speed, 1)
}

// moveWheels steers like a car: turning needs forward speed, the front wheels
// deflect up to the wheel turn angle and goals close behind are reached in reverse.
func moveWheels(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	heading := goalHeading(obj, goal)
	err := model.NormalizeAngle(heading - obj.Orientation())

	reverse := l.template.canMoveBackwards &&
		math.Abs(err) > math.Pi/2 &&
		onPathDist < reverseMaxDist*math.Max(obj.MajorRadius(), 1)
	l.flags.set(FlagMovingBackwards, reverse)
	if reverse {
		heading = model.NormalizeAngle(heading + math.Pi)
		err = model.NormalizeAngle(err + math.Pi)
	}

	speed2D := math.Abs(body.ForwardSpeed2D())
	rate := l.MaxTurnRate(obj.DamageState())
	if minTurn := l.template.minTurnSpeed; minTurn > 0 && minTurn < constants.Uncapped && speed2D < minTurn {
		rate *= speed2D / minTurn
	}

	if limit := l.template.wheelTurnAngle; limit > 0 {
		l.wheelAngle = math.Max(-limit, math.Min(limit, err))
	} else {
		l.wheelAngle = 0
	}

	_, remaining := turnTowards(obj, body, heading, rate)

	speed := l.approachSpeed(onPathDist, desiredSpeed)
	// keep rolling while turning so the wheels can steer
	speed *= 0.5 + 0.5*math.Max(math.Cos(remaining), 0)
	if reverse {
		speed = -speed
	}
	l.driveAlong(obj, body, forward(obj.Orientation()), speed, 1)
}

// moveTreads pivots in place on large heading errors, otherwise drives while
// slowing in proportion to the error.
func moveTreads(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	rate := l.MaxTurnRate(obj.DamageState())
	heading := goalHeading(obj, goal)
	err := model.NormalizeAngle(heading - obj.Orientation())

	_, remaining := turnTowards(obj, body, heading, rate)

	speed := 0.0
	if math.Abs(err) <= treadsPivotAngle {
		speed = l.approachSpeed(onPathDist, desiredSpeed) * (1 - math.Abs(remaining)/treadsPivotAngle)
	}
	l.driveAlong(obj, body, forward(obj.Orientation()), speed, 1)
}
