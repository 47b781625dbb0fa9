package locomotor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/ini"
	"github.com/udisondev/rtsloco/internal/model"
)

// ErrThrustVerticalMotion is a fatal load error: THRUST locomotors steer in 3D
// themselves and may not use a Z behaviour or lift.
var ErrThrustVerticalMotion = errors.New("THRUST locomotors may not use ZAxisBehavior or lift")

// healedSpeed replaces non-positive speeds that an appearance requires to be positive.
const healedSpeed = 0.01

// BehaviorZ selects the vertical-motion policy.
type BehaviorZ int32

const (
	BehaviorZNoMotiveForce BehaviorZ = iota
	BehaviorZSeaLevel
	BehaviorZSurfaceRelativeHeight
	BehaviorZAbsoluteHeight
	BehaviorZFixedSurfaceRelativeHeight
	BehaviorZFixedAbsoluteHeight
	BehaviorZFixedRelativeToGroundAndBuildings
	BehaviorZRelativeToHighestLayer
	behaviorZCount
)

// BehaviorZNames is the data-file spelling table.
var BehaviorZNames = []string{
	"NO_Z_MOTIVE_FORCE",
	"SEA_LEVEL",
	"SURFACE_RELATIVE_HEIGHT",
	"ABSOLUTE_HEIGHT",
	"FIXED_SURFACE_RELATIVE_HEIGHT",
	"FIXED_ABSOLUTE_HEIGHT",
	"FIXED_RELATIVE_TO_GROUND_AND_BUILDINGS",
	"RELATIVE_TO_HIGHEST_LAYER",
}

// String returns the data-file spelling.
func (b BehaviorZ) String() string {
	if b < 0 || b >= behaviorZCount {
		return "UNKNOWN"
	}
	return BehaviorZNames[b]
}

// Appearance is the movement mechanism; it selects the motion strategy.
type Appearance int32

const (
	AppearanceTwoLegs Appearance = iota
	AppearanceFourWheels
	AppearanceTreads
	AppearanceHover
	AppearanceThrust
	AppearanceWings
	AppearanceClimber
	AppearanceOther
	AppearanceMotorcycle
	appearanceCount
)

// AppearanceNames is the data-file spelling table.
var AppearanceNames = []string{
	"TWO_LEGS",
	"FOUR_WHEELS",
	"TREADS",
	"HOVER",
	"THRUST",
	"WINGS",
	"CLIMBER",
	"OTHER",
	"MOTORCYCLE",
}

// String returns the data-file spelling.
func (a Appearance) String() string {
	if a < 0 || a >= appearanceCount {
		return "UNKNOWN"
	}
	return AppearanceNames[a]
}

// Priority orders units inside group moves.
type Priority int32

const (
	PriorityMovesBack Priority = iota
	PriorityMovesMiddle
	PriorityMovesFront
)

// PriorityNames is the data-file spelling table.
var PriorityNames = []string{"MOVES_BACK", "MOVES_MIDDLE", "MOVES_FRONT"}

// String returns the data-file spelling.
func (p Priority) String() string {
	if p < 0 || int(p) >= len(PriorityNames) {
		return "UNKNOWN"
	}
	return PriorityNames[p]
}

// Template is the shared configuration of a class of movement.
//
// All rates are per logic frame. A template is read-only once validated and
// registered; only the store's override and reset operations change it.
type Template struct {
	name string

	surfaces model.SurfaceMask

	maxSpeed            float64
	maxSpeedDamaged     float64
	minSpeed            float64
	maxTurnRate         float64
	maxTurnRateDamaged  float64
	minTurnSpeed        float64
	acceleration        float64
	accelerationDamaged float64
	lift                float64
	liftDamaged         float64
	braking             float64

	behaviorZ  BehaviorZ
	appearance Appearance
	priority   Priority

	preferredHeight        float64
	preferredHeightDamping float64
	circlingRadius         float64
	speedLimitZ            float64
	extra2DFriction        float64
	maxThrustAngle         float64

	accelPitchLimit float64
	decelPitchLimit float64
	bounceKick      float64

	pitchStiffness      float64
	rollStiffness       float64
	pitchDamping        float64
	rollDamping         float64
	pitchByZVelCoef     float64
	forwardVelCoef      float64
	lateralVelCoef      float64
	forwardAccelCoef    float64
	lateralAccelCoef    float64
	uniformAxialDamping float64
	turnPivotOffset     float64

	thrustRoll float64
	wobbleRate float64
	minWobble  float64
	maxWobble  float64

	airborneTargetingHeight int32

	worksWhenDead                 bool
	allowMotiveForceWhileAirborne bool
	apply2DFrictionWhenAirborne   bool
	downhillOnly                  bool
	stickToGround                 bool
	canMoveBackwards              bool
	hasSuspension                 bool

	wheelTurnAngle      float64
	maxWheelExtension   float64
	maxWheelCompression float64

	closeEnoughDist   float64
	closeEnoughDist3D bool

	slideIntoPlaceTime float64

	wanderWidthFactor      float64
	wanderLengthFactor     float64
	wanderAboutPointRadius float64

	rudderCorrectionDegree   float64
	rudderCorrectionRate     float64
	elevatorCorrectionDegree float64
	elevatorCorrectionRate   float64

	// override chain
	next      *Template
	prev      *Template
	allocated bool
}

// NewTemplate creates a template with stock defaults.
// Damaged variants start at -1 so Validate can tell they were never set.
func NewTemplate() *Template {
	return &Template{
		maxSpeedDamaged:         -1,
		maxTurnRateDamaged:      -1,
		accelerationDamaged:     -1,
		liftDamaged:             -1,
		braking:                 constants.Uncapped,
		minTurnSpeed:            constants.Uncapped,
		behaviorZ:               BehaviorZNoMotiveForce,
		appearance:              AppearanceOther,
		priority:                PriorityMovesMiddle,
		preferredHeightDamping:  1,
		speedLimitZ:             999999,
		pitchStiffness:          0.1,
		rollStiffness:           0.1,
		pitchDamping:            0.9,
		rollDamping:             0.9,
		uniformAxialDamping:     1,
		airborneTargetingHeight: math.MaxInt32,
		closeEnoughDist:         1,
		wanderLengthFactor:      1,
	}
}

// Validate heals unset damaged values and enforces per-appearance rules.
// Only ErrThrustVerticalMotion is fatal; everything else is corrected and logged.
func (t *Template) Validate() error {
	if t.maxSpeedDamaged < 0 {
		t.maxSpeedDamaged = max(t.maxSpeed, 0)
	}
	if t.maxTurnRateDamaged < 0 {
		t.maxTurnRateDamaged = max(t.maxTurnRate, 0)
	}
	if t.accelerationDamaged < 0 {
		t.accelerationDamaged = max(t.acceleration, 0)
	}
	if t.liftDamaged < 0 {
		t.liftDamaged = max(t.lift, 0)
	}

	switch t.appearance {
	case AppearanceWings:
		if t.minSpeed <= 0 {
			slog.Warn("WINGS should always have positive min speed, healing", "template", t.name)
			t.minSpeed = healedSpeed
		}
		if t.minTurnSpeed <= 0 {
			slog.Warn("WINGS should always have positive min turn speed, healing", "template", t.name)
			t.minTurnSpeed = healedSpeed
		}

	case AppearanceThrust:
		if t.behaviorZ != BehaviorZNoMotiveForce || t.lift != 0 || t.liftDamaged != 0 {
			return fmt.Errorf("template %q (z behavior %s, lift %g, damaged lift %g): %w",
				t.name, t.behaviorZ, t.lift, t.liftDamaged, ErrThrustVerticalMotion)
		}
		if t.maxSpeed <= 0 {
			slog.Debug("THRUST locomotor may not have zero max speed, healing", "template", t.name)
			t.maxSpeed = healedSpeed
		}
		if t.maxSpeedDamaged <= 0 {
			slog.Debug("THRUST locomotor may not have zero damaged max speed, healing", "template", t.name)
			t.maxSpeedDamaged = healedSpeed
		}
		if t.minSpeed <= 0 {
			slog.Debug("THRUST locomotor may not have zero min speed, healing", "template", t.name)
			t.minSpeed = healedSpeed
		}
	}
	return nil
}

// clone copies the configuration without chain links.
func (t *Template) clone() *Template {
	c := *t
	c.next = nil
	c.prev = nil
	c.allocated = false
	return &c
}

// FinalOverride returns the newest layer of the override chain (t itself without overrides).
func (t *Template) FinalOverride() *Template {
	cur := t
	for cur.next != nil {
		cur = cur.next
	}
	return cur
}

// IsOverride reports whether t was allocated while loading overrides.
func (t *Template) IsOverride() bool { return t.allocated }

// deleteOverrides discards every newer layer.
// Returns nil when t itself was allocated as an override, so the caller drops it.
func (t *Template) deleteOverrides() *Template {
	if t.allocated {
		if t.next != nil {
			t.next.deleteOverrides()
		}
		t.unlink()
		return nil
	}
	if t.next != nil {
		t.next.deleteOverrides()
		t.next = nil
	}
	return t
}

func (t *Template) unlink() {
	if t.prev != nil && t.prev.next == t {
		t.prev.next = nil
	}
	t.next = nil
	t.prev = nil
}

func (t *Template) Name() string                        { return t.name }
func (t *Template) Surfaces() model.SurfaceMask         { return t.surfaces }
func (t *Template) Appearance() Appearance              { return t.appearance }
func (t *Template) BehaviorZ() BehaviorZ                { return t.behaviorZ }
func (t *Template) Priority() Priority                  { return t.priority }
func (t *Template) MaxSpeed() float64                   { return t.maxSpeed }
func (t *Template) MaxSpeedDamaged() float64            { return t.maxSpeedDamaged }
func (t *Template) MinSpeed() float64                   { return t.minSpeed }
func (t *Template) MaxTurnRate() float64                { return t.maxTurnRate }
func (t *Template) MaxTurnRateDamaged() float64         { return t.maxTurnRateDamaged }
func (t *Template) MinTurnSpeed() float64               { return t.minTurnSpeed }
func (t *Template) Acceleration() float64               { return t.acceleration }
func (t *Template) AccelerationDamaged() float64        { return t.accelerationDamaged }
func (t *Template) Lift() float64                       { return t.lift }
func (t *Template) LiftDamaged() float64                { return t.liftDamaged }
func (t *Template) Braking() float64                    { return t.braking }
func (t *Template) PreferredHeight() float64            { return t.preferredHeight }
func (t *Template) CirclingRadius() float64             { return t.circlingRadius }
func (t *Template) CloseEnoughDist() float64            { return t.closeEnoughDist }
func (t *Template) IsCloseEnoughDist3D() bool           { return t.closeEnoughDist3D }
func (t *Template) WanderWidthFactor() float64          { return t.wanderWidthFactor }
func (t *Template) WanderAboutPointRadius() float64     { return t.wanderAboutPointRadius }
func (t *Template) AirborneTargetingHeight() int32      { return t.airborneTargetingHeight }
func (t *Template) LocomotorWorksWhenDead() bool        { return t.worksWhenDead }
func (t *Template) AllowMotiveForceWhileAirborne() bool { return t.allowMotiveForceWhileAirborne }
func (t *Template) Apply2DFrictionWhenAirborne() bool   { return t.apply2DFrictionWhenAirborne }
func (t *Template) Extra2DFriction() float64            { return t.extra2DFriction }
func (t *Template) IsDownhillOnly() bool                { return t.downhillOnly }
func (t *Template) CanMoveBackwards() bool              { return t.canMoveBackwards }
func (t *Template) HasSuspension() bool                 { return t.hasSuspension }
func (t *Template) SlideIntoPlaceTime() float64         { return t.slideIntoPlaceTime }

// TemplateFields binds data-file keys to template fields.
var TemplateFields = ini.FieldTable[Template]{
	{Token: "Surfaces", Parse: ini.ParseBitstring32[model.SurfaceMask](model.SurfaceNames), Target: func(t *Template) any { return &t.surfaces }},
	{Token: "Speed", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxSpeed }, Unit: ini.UnitPerSecond},
	{Token: "SpeedDamaged", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxSpeedDamaged }, Unit: ini.UnitPerSecond},
	{Token: "MinSpeed", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.minSpeed }, Unit: ini.UnitPerSecond},
	{Token: "TurnRate", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxTurnRate }, Unit: ini.UnitDegreesPerSecond},
	{Token: "TurnRateDamaged", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxTurnRateDamaged }, Unit: ini.UnitDegreesPerSecond},
	{Token: "Acceleration", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.acceleration }, Unit: ini.UnitPerSecondSquared},
	{Token: "AccelerationDamaged", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.accelerationDamaged }, Unit: ini.UnitPerSecondSquared},
	{Token: "Lift", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.lift }, Unit: ini.UnitPerSecondSquared},
	{Token: "LiftDamaged", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.liftDamaged }, Unit: ini.UnitPerSecondSquared},
	{Token: "Braking", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.braking }, Unit: ini.UnitPerSecondSquared},
	{Token: "MinTurnSpeed", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.minTurnSpeed }, Unit: ini.UnitPerSecond},
	{Token: "PreferredHeight", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.preferredHeight }},
	{Token: "PreferredHeightDamping", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.preferredHeightDamping }},
	{Token: "CirclingRadius", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.circlingRadius }},
	{Token: "Extra2DFriction", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.extra2DFriction }, Unit: ini.UnitPerSecond},
	{Token: "SpeedLimitZ", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.speedLimitZ }, Unit: ini.UnitPerSecond},
	{Token: "MaxThrustAngle", Parse: ini.ParseAngleReal, Target: func(t *Template) any { return &t.maxThrustAngle }},
	{Token: "ZAxisBehavior", Parse: ini.ParseIndexList[BehaviorZ](BehaviorZNames), Target: func(t *Template) any { return &t.behaviorZ }},
	{Token: "Appearance", Parse: ini.ParseIndexList[Appearance](AppearanceNames), Target: func(t *Template) any { return &t.appearance }},
	{Token: "GroupMovementPriority", Parse: ini.ParseIndexList[Priority](PriorityNames), Target: func(t *Template) any { return &t.priority }},
	{Token: "AccelerationPitchLimit", Parse: ini.ParseAngleReal, Target: func(t *Template) any { return &t.accelPitchLimit }},
	{Token: "DecelerationPitchLimit", Parse: ini.ParseAngleReal, Target: func(t *Template) any { return &t.decelPitchLimit }},
	{Token: "BounceAmount", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.bounceKick }, Unit: ini.UnitDegreesPerSecond},
	{Token: "PitchStiffness", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.pitchStiffness }},
	{Token: "RollStiffness", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.rollStiffness }},
	{Token: "PitchDamping", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.pitchDamping }},
	{Token: "RollDamping", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.rollDamping }},
	{Token: "ThrustRoll", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.thrustRoll }},
	{Token: "ThrustWobbleRate", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.wobbleRate }},
	{Token: "ThrustMinWobble", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.minWobble }},
	{Token: "ThrustMaxWobble", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxWobble }},
	{Token: "PitchInDirectionOfZVelFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.pitchByZVelCoef }},
	{Token: "ForwardVelocityPitchFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.forwardVelCoef }},
	{Token: "LateralVelocityRollFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.lateralVelCoef }},
	{Token: "ForwardAccelerationPitchFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.forwardAccelCoef }},
	{Token: "LateralAccelerationRollFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.lateralAccelCoef }},
	{Token: "UniformAxialDamping", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.uniformAxialDamping }},
	{Token: "TurnPivotOffset", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.turnPivotOffset }},
	{Token: "Apply2DFrictionWhenAirborne", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.apply2DFrictionWhenAirborne }},
	{Token: "DownhillOnly", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.downhillOnly }},
	{Token: "AllowAirborneMotiveForce", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.allowMotiveForceWhileAirborne }},
	{Token: "LocomotorWorksWhenDead", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.worksWhenDead }},
	{Token: "AirborneTargetingHeight", Parse: ini.ParseInt, Target: func(t *Template) any { return &t.airborneTargetingHeight }},
	{Token: "StickToGround", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.stickToGround }},
	{Token: "CanMoveBackwards", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.canMoveBackwards }},
	{Token: "HasSuspension", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.hasSuspension }},
	{Token: "FrontWheelTurnAngle", Parse: ini.ParseAngleReal, Target: func(t *Template) any { return &t.wheelTurnAngle }},
	{Token: "MaximumWheelExtension", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxWheelExtension }},
	{Token: "MaximumWheelCompression", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.maxWheelCompression }},
	{Token: "CloseEnoughDist", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.closeEnoughDist }},
	{Token: "CloseEnoughDist3D", Parse: ini.ParseBool, Target: func(t *Template) any { return &t.closeEnoughDist3D }},
	{Token: "SlideIntoPlaceTime", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.slideIntoPlaceTime }, Unit: ini.UnitMilliseconds},
	{Token: "WanderWidthFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.wanderWidthFactor }},
	{Token: "WanderLengthFactor", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.wanderLengthFactor }},
	{Token: "WanderAboutPointRadius", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.wanderAboutPointRadius }},
	{Token: "RudderCorrectionDegree", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.rudderCorrectionDegree }},
	{Token: "RudderCorrectionRate", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.rudderCorrectionRate }},
	{Token: "ElevatorCorrectionDegree", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.elevatorCorrectionDegree }},
	{Token: "ElevatorCorrectionRate", Parse: ini.ParseReal, Target: func(t *Template) any { return &t.elevatorCorrectionRate }},
}
