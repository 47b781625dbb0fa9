package locomotor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/model"
	"github.com/udisondev/rtsloco/internal/xfer"
)

func TestNewLocomotor(t *testing.T) {
	env := newTestEnv()
	tmpl := groundTemplate(AppearanceTwoLegs)
	tmpl.closeEnoughDist = 3
	tmpl.closeEnoughDist3D = true
	tmpl.preferredHeight = 40

	l := env.store.NewLocomotor(tmpl)

	assert.Same(t, tmpl, l.Template())
	assert.Equal(t, 1.0, l.BrakingFactor())
	assert.Equal(t, constants.Uncapped, l.maxSpeed)
	assert.Equal(t, constants.Uncapped, l.maxLift)
	assert.Equal(t, constants.Uncapped, l.maxAccel)
	assert.Equal(t, constants.Uncapped, l.maxBraking)
	assert.Equal(t, constants.Uncapped, l.maxTurnRate)
	assert.Equal(t, 3.0, l.CloseEnoughDist())
	assert.True(t, l.Flags().Has(FlagCloseEnoughDist3D))
	assert.Equal(t, 40.0, l.PreferredHeight())
	assert.Equal(t, uint32(100+75), l.MoveFrame())

	_, valid := l.MaintainPosition()
	assert.False(t, valid)
}

func TestNewLocomotor_WanderRanges(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))

	assert.GreaterOrEqual(t, l.WanderAngle(), -math.Pi/6)
	assert.LessOrEqual(t, l.WanderAngle(), math.Pi/6)
	assert.GreaterOrEqual(t, l.WanderLength(), 0.8)
	assert.LessOrEqual(t, l.WanderLength(), 1.2)
}

func TestMaxSpeed_InstanceCap(t *testing.T) {
	env := newTestEnv()
	tmpl := NewTemplate()
	tmpl.maxSpeed = 10
	require.NoError(t, tmpl.Validate())

	l := env.store.NewLocomotor(tmpl)
	l.SetMaxSpeed(5)

	assert.Equal(t, 5.0, l.MaxSpeedForCondition(model.DamagePristine))
}

func TestMaxSpeed_DamageThreshold(t *testing.T) {
	env := newTestEnv()
	tmpl := NewTemplate()
	tmpl.maxSpeed = 10
	tmpl.maxSpeedDamaged = 4
	require.NoError(t, tmpl.Validate())
	l := env.store.NewLocomotor(tmpl)

	assert.Equal(t, 10.0, l.MaxSpeedForCondition(model.DamagePristine))
	assert.Equal(t, 10.0, l.MaxSpeedForCondition(model.DamageDamaged))
	assert.Equal(t, 4.0, l.MaxSpeedForCondition(model.DamageReallyDamaged))
	assert.Equal(t, 4.0, l.MaxSpeedForCondition(model.DamageRubble))

	env.globals.penalty = model.DamageDamaged
	assert.Equal(t, 4.0, l.MaxSpeedForCondition(model.DamageDamaged))
}

func TestLimits_NeverExceedCapOrTemplate(t *testing.T) {
	env := newTestEnv()
	tmpl := NewTemplate()
	tmpl.maxSpeed = 10
	tmpl.maxSpeedDamaged = 6
	tmpl.acceleration = 2
	tmpl.accelerationDamaged = 1
	tmpl.lift = 3
	tmpl.liftDamaged = 2
	tmpl.maxTurnRate = 0.3
	tmpl.maxTurnRateDamaged = 0.1
	require.NoError(t, tmpl.Validate())

	states := []model.DamageState{model.DamagePristine, model.DamageDamaged, model.DamageReallyDamaged, model.DamageRubble}
	for _, limit := range []float64{0, 0.05, 1.5, 8, constants.Uncapped} {
		l := env.store.NewLocomotor(tmpl)
		l.SetMaxSpeed(limit)
		l.SetMaxAcceleration(limit)
		l.SetMaxLift(limit)
		l.SetMaxTurnRate(limit)

		for _, d := range states {
			undamaged := d < env.globals.penalty
			pick := func(a, b float64) float64 {
				if undamaged {
					return a
				}
				return b
			}

			speed := l.MaxSpeedForCondition(d)
			assert.LessOrEqual(t, speed, limit)
			assert.LessOrEqual(t, speed, pick(tmpl.maxSpeed, tmpl.maxSpeedDamaged))
			assert.Equal(t, math.Min(limit, pick(tmpl.maxSpeed, tmpl.maxSpeedDamaged)), speed)
			assert.Equal(t, speed, l.MaxSpeedForCondition(d), "pure function")

			assert.Equal(t, math.Min(limit, pick(tmpl.acceleration, tmpl.accelerationDamaged)), l.MaxAcceleration(d))
			assert.Equal(t, math.Min(limit, pick(tmpl.lift, tmpl.liftDamaged)), l.MaxLift(d))
			assert.Equal(t, math.Min(limit, pick(tmpl.maxTurnRate, tmpl.maxTurnRateDamaged)), l.MaxTurnRate(d))
			assert.Equal(t, l.MaxTurnRate(d), l.MaxTurnRate(d))
		}
	}
}

func TestMaxTurnRate_UltraAccurate(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTreads))

	base := l.MaxTurnRate(model.DamagePristine)
	l.SetUltraAccurate(true)
	assert.Equal(t, base*2, l.MaxTurnRate(model.DamagePristine))

	l.SetMaxTurnRate(0.05)
	assert.Equal(t, 0.1, l.MaxTurnRate(model.DamagePristine), "doubled after capping")
}

func TestBraking_Cap(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTreads))

	assert.Equal(t, 0.2, l.Braking())
	l.SetMaxBraking(0.05)
	assert.Equal(t, 0.05, l.Braking())
	l.SetMaxBraking(5)
	assert.Equal(t, 0.2, l.Braking(), "caps never widen")
}

func TestClone(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))
	l.SetMaxSpeed(0.5)
	l.SetUltraAccurate(true)
	l.SetCloseEnoughDist(7)
	l.SetPreferredHeight(12)
	l.MaintainCurrentPosition(newObject(nil))
	l.maintainPos = model.NewCoord3D(5, 5, 0)

	c := l.Clone()

	assert.Same(t, l.Template(), c.Template())
	assert.Equal(t, 0.5, c.maxSpeed)
	assert.Equal(t, l.Flags(), c.Flags())
	assert.Equal(t, 7.0, c.CloseEnoughDist())
	assert.Equal(t, 12.0, c.PreferredHeight())
	assert.Equal(t, l.WanderAngle(), c.WanderAngle())
	assert.Equal(t, l.WanderLength(), c.WanderLength())
	assert.True(t, c.maintainPos.IsZero(), "maintain position is not copied")
}

func TestAssign(t *testing.T) {
	env := newTestEnv()
	src := env.store.NewLocomotor(groundTemplate(AppearanceTreads))
	src.SetMaxSpeed(0.25)
	src.SetAllowInvalidPosition(true)
	src.SetCloseEnoughDist(4)

	dst := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))
	dst.wanderAngle = 0.3
	dst.wanderLength = 1.1
	dst.moveFrame = 999
	dst.maintainPos = model.NewCoord3D(1, 2, 3)

	dst.Assign(src)

	assert.Same(t, src.Template(), dst.Template())
	assert.Equal(t, 0.25, dst.maxSpeed)
	assert.True(t, dst.Flags().Has(FlagAllowInvalidPosition))
	assert.Equal(t, 4.0, dst.CloseEnoughDist())
	assert.Equal(t, 0.3, dst.WanderAngle())
	assert.Equal(t, 1.1, dst.WanderLength())
	assert.Equal(t, uint32(999), dst.MoveFrame())
	assert.Equal(t, model.NewCoord3D(1, 2, 3), dst.maintainPos)
}

func TestSurfaceHeightAt(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceHover))

	env.terrain.ground = 3
	assert.Equal(t, 3.0, l.SurfaceHeightAt(0, 0))

	env.terrain.water = 8
	assert.Equal(t, 8.0, l.SurfaceHeightAt(0, 0))
}

func TestIsCloseEnough(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))
	l.SetCloseEnoughDist(2)

	goal := model.NewCoord3D(0, 0, 0)
	assert.True(t, l.IsCloseEnough(model.NewCoord3D(1, 1, 50), goal))
	assert.False(t, l.IsCloseEnough(model.NewCoord3D(3, 0, 0), goal))

	l.flags.set(FlagCloseEnoughDist3D, true)
	assert.False(t, l.IsCloseEnough(model.NewCoord3D(1, 1, 50), goal))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))
	l.SetMaxSpeed(0.7)
	l.SetMaxLift(0.3)
	l.SetMaxAcceleration(0.2)
	l.SetMaxBraking(0.4)
	l.SetMaxTurnRate(0.1)
	l.SetBrakingFactor(0.5)
	l.SetCloseEnoughDist(6)
	l.SetPreferredHeight(25)
	l.SetUltraAccurate(true)
	l.maintainPos = model.NewCoord3D(10, 20, 30)

	data, err := xfer.Save(l)
	require.NoError(t, err)

	restored := env.store.NewLocomotor(l.Template())
	restored.moveFrame = 0
	require.NoError(t, xfer.Load(restored, data))

	assert.Equal(t, l.moveFrame, restored.moveFrame)
	assert.Equal(t, l.maintainPos, restored.maintainPos)
	assert.Equal(t, l.brakingFactor, restored.brakingFactor)
	assert.Equal(t, l.maxLift, restored.maxLift)
	assert.Equal(t, l.maxSpeed, restored.maxSpeed)
	assert.Equal(t, l.maxAccel, restored.maxAccel)
	assert.Equal(t, l.maxBraking, restored.maxBraking)
	assert.Equal(t, l.maxTurnRate, restored.maxTurnRate)
	assert.Equal(t, l.closeEnoughDist, restored.closeEnoughDist)
	assert.Equal(t, l.flags, restored.flags)
	assert.Equal(t, l.preferredHeight, restored.preferredHeight)
	assert.Equal(t, l.preferredHeightDamping, restored.preferredHeightDamping)
	assert.Equal(t, l.wanderAngle, restored.wanderAngle)
	assert.Equal(t, l.wanderLength, restored.wanderLength)
}

func TestSnapshot_VersionOneKeepsMoveFrame(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))

	data, err := xfer.Save(l)
	require.NoError(t, err)

	// a v1 stream is the v2 stream without the move frame
	v1 := append([]byte{1}, data[1+4:]...)

	restored := env.store.NewLocomotor(l.Template())
	restored.moveFrame = 4242
	require.NoError(t, xfer.Load(restored, v1))
	assert.Equal(t, uint32(4242), restored.moveFrame)
	assert.Equal(t, l.wanderLength, restored.wanderLength)
}

func TestSnapshot_FutureVersion(t *testing.T) {
	env := newTestEnv()
	l := env.store.NewLocomotor(groundTemplate(AppearanceTwoLegs))

	data, err := xfer.Save(l)
	require.NoError(t, err)
	data[0] = 3

	assert.ErrorIs(t, xfer.Load(l, data), xfer.ErrVersion)
}
