package physics

import (
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// Owner is the object a Body moves.
type Owner interface {
	Position() model.Coord3D
	SetPosition(pos model.Coord3D)
	Orientation() float64
}

// Ground reports terrain height; bodies never sink below it.
type Ground interface {
	GroundHeight(x, y float64) float64
}

// Options configures a Body.
type Options struct {
	Mass        float64 // must be > 0
	Gravity     float64 // per-frame² acceleration on Z, negative is down
	Friction    float64 // fraction of XY velocity removed per grounded frame
	AirFriction float64 // fraction of XY velocity removed per airborne frame
	Ground      Ground  // nil disables ground clamping
}

// DefaultOptions returns a unit-mass body with light ground friction.
func DefaultOptions() Options {
	return Options{
		Mass:     1,
		Gravity:  -100.0 / 900.0,
		Friction: 0.05,
	}
}

// groundEpsilon is the height above ground still treated as touching it.
const groundEpsilon = 0.01

// Body integrates forces into velocity and position once per frame.
//
// Forces are accumulated during a tick and consumed by Update.
type Body struct {
	owner Owner
	opts  Options

	velocity     model.Coord3D
	acceleration model.Coord3D
	motive       model.Coord3D
	force        model.Coord3D

	turning model.TurnType
	stunned bool
}

// NewBody creates a body attached to owner.
func NewBody(owner Owner, opts Options) *Body {
	if opts.Mass <= 0 {
		opts.Mass = 1
	}
	return &Body{owner: owner, opts: opts}
}

// ApplyMotiveForce replaces this tick's motive force.
func (b *Body) ApplyMotiveForce(force model.Coord3D) { b.motive = force }

// MotiveForce returns the motive force applied this tick.
func (b *Body) MotiveForce() model.Coord3D { return b.motive }

// ApplyForce accumulates an external force for this tick.
func (b *Body) ApplyForce(force model.Coord3D) { b.force = b.force.Add(force) }

// Velocity returns the current velocity in units per frame.
func (b *Body) Velocity() model.Coord3D { return b.velocity }

// SetVelocity overrides the current velocity.
func (b *Body) SetVelocity(v model.Coord3D) { b.velocity = v }

// VelocityMagnitude returns the 3D speed.
func (b *Body) VelocityMagnitude() float64 { return b.velocity.Length() }

// ForwardSpeed2D returns the XY speed projected on the owner's heading.
// Negative when moving backwards.
func (b *Body) ForwardSpeed2D() float64 {
	h := b.owner.Orientation()
	return b.velocity.X*math.Cos(h) + b.velocity.Y*math.Sin(h)
}

// ScrubVelocity2D clamps the XY speed to target, keeping direction.
func (b *Body) ScrubVelocity2D(target float64) {
	if target < 0 {
		target = 0
	}
	speed := b.velocity.Length2D()
	if speed <= target {
		return
	}
	if speed == 0 {
		return
	}
	scale := target / speed
	b.velocity.X *= scale
	b.velocity.Y *= scale
}

// Acceleration returns the acceleration of the last Update.
func (b *Body) Acceleration() model.Coord3D { return b.acceleration }

// Mass returns the body mass.
func (b *Body) Mass() float64 { return b.opts.Mass }

// SetTurning records the turn direction for animation and tilt.
func (b *Body) SetTurning(t model.TurnType) { b.turning = t }

// Turning returns the turn direction.
func (b *Body) Turning() model.TurnType { return b.turning }

// IsStunned reports whether the body ignores locomotion.
func (b *Body) IsStunned() bool { return b.stunned }

// SetStunned toggles the stunned state.
func (b *Body) SetStunned(stunned bool) { b.stunned = stunned }

// IsGrounded reports whether the owner touches the ground.
func (b *Body) IsGrounded() bool {
	if b.opts.Ground == nil {
		return false
	}
	pos := b.owner.Position()
	return pos.Z <= b.opts.Ground.GroundHeight(pos.X, pos.Y)+groundEpsilon
}

// Update integrates one frame: a = F/m + g, v += a, p += v, then ground
// contact and friction. Accumulated forces are consumed.
func (b *Body) Update() {
	total := b.motive.Add(b.force)
	accel := total.Scale(1 / b.opts.Mass)
	accel.Z += b.opts.Gravity

	b.velocity = b.velocity.Add(accel)
	b.acceleration = accel

	pos := b.owner.Position().Add(b.velocity)

	grounded := false
	if b.opts.Ground != nil {
		ground := b.opts.Ground.GroundHeight(pos.X, pos.Y)
		if pos.Z <= ground+groundEpsilon {
			pos.Z = ground
			if b.velocity.Z < 0 {
				b.velocity.Z = 0
			}
			grounded = true
		}
	}

	friction := b.opts.AirFriction
	if grounded {
		friction = b.opts.Friction
	}
	if friction > 0 {
		keep := 1 - math.Min(friction, 1)
		b.velocity.X *= keep
		b.velocity.Y *= keep
	}

	b.owner.SetPosition(pos)
	b.motive = model.Coord3D{}
	b.force = model.Coord3D{}
}
