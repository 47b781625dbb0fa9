package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// moveThrust flies a missile-like body in 3D. Thrust points at most
// maxThrustAngle off the current heading, wobbles between the min and max
// wobble at the wobble rate, and rudder/elevator corrections speed up yaw
// and pitch corrections once the error exceeds their degree threshold.
func moveThrust(l *Locomotor, obj Object, body PhysicsBody, goal model.Coord3D, onPathDist, desiredSpeed float64) {
	t := l.template
	pos := obj.Position()
	delta := goal.Sub(pos)

	rate := l.MaxTurnRate(obj.DamageState())
	yawErr := model.NormalizeAngle(goalHeading(obj, goal) - obj.Orientation())
	if t.rudderCorrectionDegree > 0 && math.Abs(yawErr) > t.rudderCorrectionDegree*math.Pi/180 {
		rate += t.rudderCorrectionRate * l.frameStep()
	}
	_, yawErr = turnTowards(obj, body, goalHeading(obj, goal), rate)

	// thrust deflection off the heading
	deflect := math.Max(-t.maxThrustAngle, math.Min(t.maxThrustAngle, yawErr))

	l.wobblePhase += t.wobbleRate
	if t.maxWobble > 0 || t.minWobble > 0 {
		wobble := t.minWobble + (t.maxWobble-t.minWobble)*(0.5+0.5*math.Sin(l.wobblePhase))
		deflect += wobble * math.Sin(l.wobblePhase*0.5)
	}

	pitch := math.Atan2(delta.Z, math.Max(delta.Length2D(), correctionEpsilon))
	if t.elevatorCorrectionDegree > 0 && math.Abs(pitch) > t.elevatorCorrectionDegree*math.Pi/180 {
		pitch *= 1 + t.elevatorCorrectionRate*l.frameStep()
	}
	limit := t.maxThrustAngle
	if limit <= 0 {
		limit = math.Pi / 2
	}
	pitch = math.Max(-limit, math.Min(limit, pitch))

	yaw := obj.Orientation() + deflect
	dir := model.Coord3D{
		X: math.Cos(pitch) * math.Cos(yaw),
		Y: math.Cos(pitch) * math.Sin(yaw),
		Z: math.Sin(pitch),
	}

	speed := l.approachSpeed(onPathDist, desiredSpeed)
	vel := body.Velocity()
	along := vel.X*dir.X + vel.Y*dir.Y + vel.Z*dir.Z

	accel := l.MaxAcceleration(obj.DamageState())
	dv := math.Max(-l.Braking(), math.Min(accel, speed-along))

	force := dir.Scale(dv)
	// thrust also carries the body's weight
	force.Z -= l.svc.Globals.Gravity()
	body.ApplyMotiveForce(force.Scale(body.Mass()))
}
