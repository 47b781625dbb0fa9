// Package locomotor turns a desired destination into forces on a physics body.
//
// A Template describes a class of movement (speeds, turn rates, surfaces,
// stabilization) and is loaded from data files into a Store. Every mobile
// object owns a Locomotor bound to one template; each tick the owner asks it
// to move toward a goal and the locomotor picks the motion strategy for the
// template's appearance, applies the vertical-motion policy and corrects
// post-braking drift.
package locomotor

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/model"
)

// Flags is the transient state bitset of a Locomotor.
type Flags uint32

const (
	FlagCloseEnoughDist3D Flags = 1 << iota
	FlagIsBraking
	FlagWanderDirection
	FlagOverWater
	FlagUltraAccurate
	FlagAllowInvalidPosition
	FlagMaintainPosIsValid
	FlagPreciseZPos
	FlagNoSlowDownAsApproachingDest
	FlagMovingBackwards
	FlagTurnAroundEnabled
	FlagOffsetIncreasing
)

// Has reports whether every bit in x is set.
func (f Flags) Has(x Flags) bool { return f&x == x }

func (f *Flags) set(x Flags, on bool) {
	if on {
		*f |= x
	} else {
		*f &^= x
	}
}

const (
	// wanderAngleRange bounds the random wander angle (±30°).
	wanderAngleRange = 30 * math.Pi / 180
	wanderLengthMin  = 0.8
	wanderLengthMax  = 1.2

	// moveDelaySeconds delays startup behaviours after construction.
	moveDelaySeconds = 2.5
)

var assertFatal atomic.Bool

// SetAssertFatal makes programming-error assertions panic instead of logging.
func SetAssertFatal(on bool) {
	assertFatal.Store(on)
}

func assertFailed(msg string, args ...any) {
	if assertFatal.Load() {
		panic(msg)
	}
	slog.Error(msg, args...)
}

// Locomotor is the per-object movement controller.
//
// Not safe for concurrent use: a locomotor belongs to one object and is
// touched only from the simulation goroutine.
type Locomotor struct {
	template *Template
	svc      Services

	// instance caps, only ever tighten the template
	brakingFactor float64
	maxLift       float64
	maxSpeed      float64
	maxAccel      float64
	maxBraking    float64
	maxTurnRate   float64

	flags Flags

	closeEnoughDist        float64
	preferredHeight        float64
	preferredHeightDamping float64

	wanderAngle  float64
	wanderLength float64

	maintainPos model.Coord3D
	moveFrame   uint32

	// steering memory, not persisted
	wheelAngle   float64
	wobblePhase  float64
	wanderFrames int
	circleAngle  float64
}

func newLocomotor(t *Template, svc Services) *Locomotor {
	l := &Locomotor{
		template:               t,
		svc:                    svc,
		brakingFactor:          1,
		maxLift:                constants.Uncapped,
		maxSpeed:               constants.Uncapped,
		maxAccel:               constants.Uncapped,
		maxBraking:             constants.Uncapped,
		maxTurnRate:            constants.Uncapped,
		closeEnoughDist:        t.closeEnoughDist,
		preferredHeight:        t.preferredHeight,
		preferredHeightDamping: t.preferredHeightDamping,
	}
	l.flags.set(FlagCloseEnoughDist3D, t.closeEnoughDist3D)
	l.wanderAngle = svc.Random.Real(-wanderAngleRange, wanderAngleRange)
	l.wanderLength = svc.Random.Real(wanderLengthMin, wanderLengthMax)
	l.flags.set(FlagWanderDirection, svc.Random.Int(0, 1) != 0)
	l.moveFrame = svc.Clock.Frame() + uint32(moveDelaySeconds*float64(svc.Globals.FrameRate()))
	return l
}

// Clone returns a copy with the same configuration, caps, flags and wander
// parameters. The copy has no maintain position.
func (l *Locomotor) Clone() *Locomotor {
	return &Locomotor{
		template:               l.template,
		svc:                    l.svc,
		brakingFactor:          l.brakingFactor,
		maxLift:                l.maxLift,
		maxSpeed:               l.maxSpeed,
		maxAccel:               l.maxAccel,
		maxBraking:             l.maxBraking,
		maxTurnRate:            l.maxTurnRate,
		flags:                  l.flags,
		closeEnoughDist:        l.closeEnoughDist,
		preferredHeight:        l.preferredHeight,
		preferredHeightDamping: l.preferredHeightDamping,
		wanderAngle:            l.wanderAngle,
		wanderLength:           l.wanderLength,
		moveFrame:              l.moveFrame,
	}
}

// Assign copies configuration, caps and flags from other. Wander parameters,
// move frame and maintain position of l are kept.
func (l *Locomotor) Assign(other *Locomotor) {
	if l == other {
		return
	}
	l.template = other.template
	l.svc = other.svc
	l.brakingFactor = other.brakingFactor
	l.maxLift = other.maxLift
	l.maxSpeed = other.maxSpeed
	l.maxAccel = other.maxAccel
	l.maxBraking = other.maxBraking
	l.maxTurnRate = other.maxTurnRate
	l.flags = other.flags
	l.closeEnoughDist = other.closeEnoughDist
	l.preferredHeight = other.preferredHeight
	l.preferredHeightDamping = other.preferredHeightDamping
}

// Template returns the bound template.
func (l *Locomotor) Template() *Template { return l.template }

// undamaged reports whether d is below the global movement penalty threshold.
func (l *Locomotor) undamaged(d model.DamageState) bool {
	return d < l.svc.Globals.MovementPenaltyDamageState()
}

// MaxSpeedForCondition returns the effective max speed for damage state d.
func (l *Locomotor) MaxSpeedForCondition(d model.DamageState) float64 {
	speed := l.template.maxSpeedDamaged
	if l.undamaged(d) {
		speed = l.template.maxSpeed
	}
	return min(speed, l.maxSpeed)
}

// MaxTurnRate returns the effective turn rate for damage state d,
// doubled while ultra-accurate.
func (l *Locomotor) MaxTurnRate(d model.DamageState) float64 {
	rate := l.template.maxTurnRateDamaged
	if l.undamaged(d) {
		rate = l.template.maxTurnRate
	}
	rate = min(rate, l.maxTurnRate)
	if l.flags.Has(FlagUltraAccurate) {
		return rate * 2
	}
	return rate
}

// MaxAcceleration returns the effective acceleration for damage state d.
func (l *Locomotor) MaxAcceleration(d model.DamageState) float64 {
	accel := l.template.accelerationDamaged
	if l.undamaged(d) {
		accel = l.template.acceleration
	}
	return min(accel, l.maxAccel)
}

// MaxLift returns the effective lift for damage state d.
func (l *Locomotor) MaxLift(d model.DamageState) float64 {
	lift := l.template.liftDamaged
	if l.undamaged(d) {
		lift = l.template.lift
	}
	return min(lift, l.maxLift)
}

// Braking returns the effective braking deceleration.
func (l *Locomotor) Braking() float64 {
	return min(l.template.braking, l.maxBraking)
}

func (l *Locomotor) SetMaxSpeed(v float64)        { l.maxSpeed = v }
func (l *Locomotor) SetMaxTurnRate(v float64)     { l.maxTurnRate = v }
func (l *Locomotor) SetMaxAcceleration(v float64) { l.maxAccel = v }
func (l *Locomotor) SetMaxLift(v float64)         { l.maxLift = v }
func (l *Locomotor) SetMaxBraking(v float64)      { l.maxBraking = v }
func (l *Locomotor) SetBrakingFactor(v float64)   { l.brakingFactor = v }
func (l *Locomotor) BrakingFactor() float64       { return l.brakingFactor }

// Flags returns the transient flag set.
func (l *Locomotor) Flags() Flags { return l.flags }

func (l *Locomotor) IsBraking() bool   { return l.flags.Has(FlagIsBraking) }
func (l *Locomotor) IsOverWater() bool { return l.flags.Has(FlagOverWater) }

func (l *Locomotor) SetUltraAccurate(on bool)        { l.flags.set(FlagUltraAccurate, on) }
func (l *Locomotor) SetAllowInvalidPosition(on bool) { l.flags.set(FlagAllowInvalidPosition, on) }
func (l *Locomotor) SetPreciseZPos(on bool)          { l.flags.set(FlagPreciseZPos, on) }
func (l *Locomotor) SetNoSlowDownAsApproachingDest(on bool) {
	l.flags.set(FlagNoSlowDownAsApproachingDest, on)
}

// SetCloseEnoughDist overrides the template arrival tolerance.
func (l *Locomotor) SetCloseEnoughDist(d float64) { l.closeEnoughDist = d }

// CloseEnoughDist returns the arrival tolerance.
func (l *Locomotor) CloseEnoughDist() float64 { return l.closeEnoughDist }

// SetPreferredHeight overrides the template flight height.
func (l *Locomotor) SetPreferredHeight(h float64) { l.preferredHeight = h }

// PreferredHeight returns the flight height used by the vertical-motion policy.
func (l *Locomotor) PreferredHeight() float64 { return l.preferredHeight }

// WanderAngle returns the randomized wander angle in radians.
func (l *Locomotor) WanderAngle() float64 { return l.wanderAngle }

// WanderLength returns the randomized wander length scale.
func (l *Locomotor) WanderLength() float64 { return l.wanderLength }

// MoveFrame returns the frame from which startup-gated behaviour is enabled.
func (l *Locomotor) MoveFrame() uint32 { return l.moveFrame }

// MaintainPosition returns the hold-station point and whether it is set.
func (l *Locomotor) MaintainPosition() (model.Coord3D, bool) {
	return l.maintainPos, l.flags.Has(FlagMaintainPosIsValid)
}

// WheelAngle returns the current front-wheel steering angle.
func (l *Locomotor) WheelAngle() float64 { return l.wheelAngle }

// SurfaceHeightAt returns the water height where submerged, else ground height.
func (l *Locomotor) SurfaceHeightAt(x, y float64) float64 {
	underwater, waterZ, groundZ := l.svc.Terrain.IsUnderwater(x, y)
	if underwater {
		return waterZ
	}
	return groundZ
}

// IsCloseEnough reports whether pos is within the arrival tolerance of goal.
func (l *Locomotor) IsCloseEnough(pos, goal model.Coord3D) bool {
	if l.flags.Has(FlagCloseEnoughDist3D) {
		return pos.Distance(goal) <= l.closeEnoughDist
	}
	return pos.Distance2D(goal) <= l.closeEnoughDist
}

// heightAboveLayer is the object's height over its layer, minus any carrier deck.
func (l *Locomotor) heightAboveLayer(obj Object) float64 {
	pos := obj.Position()
	h := pos.Z - l.svc.Terrain.LayerHeight(pos.X, pos.Y, obj.Layer())
	if obj.TestStatus(model.StatusDeckHeightOffset) {
		h -= obj.CarrierDeckHeight()
	}
	return h
}

// isAirborne reports whether obj is higher above its layer than gravity can
// pull it in nine frames.
func (l *Locomotor) isAirborne(obj Object) bool {
	return -9*l.svc.Globals.Gravity() < l.heightAboveLayer(obj)
}

// frameStep is one frame's worth of travel at unit speed.
func (l *Locomotor) frameStep() float64 {
	rate := l.svc.Globals.FrameRate()
	if rate <= 0 {
		rate = constants.LogicFramesPerSecond
	}
	return 1 / float64(rate)
}
