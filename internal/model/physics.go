package model

// TurnType reports which way a physics body is currently being rotated.
type TurnType int32

const (
	TurnNone TurnType = iota
	TurnPositive
	TurnNegative
)

// String returns human-readable turn name
func (t TurnType) String() string {
	switch t {
	case TurnPositive:
		return "POSITIVE"
	case TurnNegative:
		return "NEGATIVE"
	default:
		return "NONE"
	}
}

// PhysicsBody is the physics integration contract a locomotor drives.
// The locomotor only applies forces; the body integrates velocity and position.
type PhysicsBody interface {
	// ApplyMotiveForce replaces the motive force applied this tick.
	ApplyMotiveForce(force Coord3D)
	// ApplyForce adds a non-motive force (lift, repair pushes).
	ApplyForce(force Coord3D)
	Velocity() Coord3D
	VelocityMagnitude() float64
	// ForwardSpeed2D is the signed XY speed along the owner's heading.
	ForwardSpeed2D() float64
	// ScrubVelocity2D bleeds XY velocity so its magnitude does not exceed target.
	ScrubVelocity2D(target float64)
	// Acceleration is the acceleration applied during the last integration step.
	Acceleration() Coord3D
	Mass() float64
	SetTurning(t TurnType)
	Turning() TurnType
	IsStunned() bool
}
