package locomotor

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// Tilt is the visual pitch/roll state of a moving object, in radians.
// Positive pitch is nose up, positive roll is right side down.
type Tilt struct {
	Pitch     float64
	Roll      float64
	PitchRate float64
	RollRate  float64

	// WheelOffset is suspension travel, positive extended.
	WheelOffset float64
}

// UpdateTilt advances the pitch/roll spring of t by one frame.
//
// Each axis is a damped spring pulled back by its stiffness and driven by
// velocity and acceleration along (pitch) and across (roll) the heading.
func (l *Locomotor) UpdateTilt(t *Tilt, body PhysicsBody, heading float64) {
	tmpl := l.template

	fwd := forward(heading)
	lat := model.Coord3D{X: -fwd.Y, Y: fwd.X}
	vel := body.Velocity()
	acc := body.Acceleration()

	fwdVel := vel.X*fwd.X + vel.Y*fwd.Y
	latVel := vel.X*lat.X + vel.Y*lat.Y
	fwdAcc := acc.X*fwd.X + acc.Y*fwd.Y
	latAcc := acc.X*lat.X + acc.Y*lat.Y

	pitchAccel := -tmpl.pitchStiffness*t.Pitch +
		tmpl.forwardVelCoef*fwdVel +
		tmpl.forwardAccelCoef*fwdAcc +
		tmpl.pitchByZVelCoef*vel.Z
	rollAccel := -tmpl.rollStiffness*t.Roll +
		tmpl.lateralVelCoef*latVel +
		tmpl.lateralAccelCoef*latAcc

	if tmpl.appearance == AppearanceThrust {
		rollAccel += tmpl.thrustRoll * turnSign(body.Turning())
	}
	if tmpl.bounceKick > 0 && acc.Z > 0 {
		t.PitchRate += tmpl.bounceKick
	}

	t.PitchRate = (t.PitchRate + pitchAccel) * tmpl.pitchDamping * tmpl.uniformAxialDamping
	t.RollRate = (t.RollRate + rollAccel) * tmpl.rollDamping * tmpl.uniformAxialDamping
	t.Pitch += t.PitchRate
	t.Roll += t.RollRate

	if limit := tmpl.accelPitchLimit; limit > 0 && t.Pitch > limit {
		t.Pitch, t.PitchRate = limit, 0
	}
	if limit := tmpl.decelPitchLimit; limit > 0 && t.Pitch < -limit {
		t.Pitch, t.PitchRate = -limit, 0
	}

	if tmpl.hasSuspension {
		// upward acceleration compresses, free fall extends
		travel := -acc.Z - l.svc.Globals.Gravity()
		t.WheelOffset = math.Max(-tmpl.maxWheelCompression, math.Min(tmpl.maxWheelExtension, travel))
	}
}
