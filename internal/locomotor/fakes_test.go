package locomotor

import (
	"github.com/udisondev/rtsloco/internal/model"
	"github.com/udisondev/rtsloco/internal/namekey"
)

type fakeTerrain struct {
	ground  float64
	water   float64 // submerged where ground < water
	highest float64 // extra height of buildings above ground
	slopeX  float64 // ground rises by slopeX per unit of X
}

func (f *fakeTerrain) groundAt(x float64) float64 { return f.ground + f.slopeX*x }

func (f *fakeTerrain) IsUnderwater(x, _ float64) (bool, float64, float64) {
	g := f.groundAt(x)
	return g < f.water, f.water, g
}

func (f *fakeTerrain) LayerHeight(x, _ float64, _ model.Layer) float64 { return f.groundAt(x) }

func (f *fakeTerrain) HighestLayerHeight(x, _ float64) float64 { return f.groundAt(x) + f.highest }

func (f *fakeTerrain) GroundHeight(x, _ float64) float64 { return f.groundAt(x) }

type fakePathfinder struct {
	valid func(pos model.Coord3D) bool
	calls int
}

func (f *fakePathfinder) ValidMovementTerrain(_ model.Layer, _ model.SurfaceMask, pos model.Coord3D) bool {
	f.calls++
	if f.valid == nil {
		return true
	}
	return f.valid(pos)
}

type fakeGlobals struct {
	gravity float64
	penalty model.DamageState
}

func (f *fakeGlobals) Gravity() float64                              { return f.gravity }
func (f *fakeGlobals) MovementPenaltyDamageState() model.DamageState { return f.penalty }
func (f *fakeGlobals) FrameRate() int                                { return 30 }

type fakeClock struct{ frame uint32 }

func (f *fakeClock) Frame() uint32 { return f.frame }

// fakeRandom returns the midpoint of every range and alternates Int results.
type fakeRandom struct{ n int }

func (f *fakeRandom) Real(lo, hi float64) float64 { return (lo + hi) / 2 }

func (f *fakeRandom) Int(lo, hi int) int {
	f.n++
	if f.n%2 == 0 {
		return lo
	}
	return hi
}

// fakeBody records what the locomotor asks of it.
type fakeBody struct {
	motive      model.Coord3D
	force       model.Coord3D
	velocity    model.Coord3D
	accel       model.Coord3D
	forward     float64
	turning     model.TurnType
	stunned     bool
	scrubbed    []float64
	motiveCalls int
}

func (b *fakeBody) ApplyMotiveForce(f model.Coord3D) { b.motive = f; b.motiveCalls++ }
func (b *fakeBody) ApplyForce(f model.Coord3D)       { b.force = b.force.Add(f) }
func (b *fakeBody) Velocity() model.Coord3D          { return b.velocity }
func (b *fakeBody) VelocityMagnitude() float64       { return b.velocity.Length() }
func (b *fakeBody) ForwardSpeed2D() float64          { return b.forward }
func (b *fakeBody) ScrubVelocity2D(t float64)        { b.scrubbed = append(b.scrubbed, t) }
func (b *fakeBody) Acceleration() model.Coord3D      { return b.accel }
func (b *fakeBody) Mass() float64                    { return 1 }
func (b *fakeBody) SetTurning(t model.TurnType)      { b.turning = t }
func (b *fakeBody) Turning() model.TurnType          { return b.turning }
func (b *fakeBody) IsStunned() bool                  { return b.stunned }

type testEnv struct {
	terrain    *fakeTerrain
	pathfinder *fakePathfinder
	globals    *fakeGlobals
	clock      *fakeClock
	store      *Store
}

func newTestEnv() *testEnv {
	env := &testEnv{
		terrain:    &fakeTerrain{water: -100},
		pathfinder: &fakePathfinder{},
		globals:    &fakeGlobals{gravity: -100.0 / 900.0, penalty: model.DamageReallyDamaged},
		clock:      &fakeClock{frame: 100},
	}
	env.store = NewStore(namekey.NewGenerator(), Services{
		Terrain:    env.terrain,
		Pathfinder: env.pathfinder,
		Globals:    env.globals,
		Clock:      env.clock,
		Random:     &fakeRandom{},
	})
	return env
}

// groundTemplate is a validated template with sane per-frame limits.
func groundTemplate(a Appearance) *Template {
	t := NewTemplate()
	t.name = "Test" + a.String()
	t.surfaces = model.SurfaceGround
	t.appearance = a
	t.maxSpeed = 1
	t.maxTurnRate = 0.2
	t.acceleration = 0.1
	t.braking = 0.2
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

func newObject(body model.PhysicsBody) *model.GameObject {
	obj := model.NewGameObject(0x10000001, "unit", model.Coord3D{}, model.KindVehicle)
	if body != nil {
		obj.SetPhysics(body)
	}
	return obj
}
