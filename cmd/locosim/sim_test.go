package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rtsloco/internal/config"
	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/db"
	"github.com/udisondev/rtsloco/internal/locomotor"
	"github.com/udisondev/rtsloco/internal/model"
	"github.com/udisondev/rtsloco/internal/testutil"
	"github.com/udisondev/rtsloco/internal/xfer"
)

const testLocomotors = `
Locomotor TestTreads
  Surfaces     = GROUND
  Speed        = 30
  TurnRate     = 180
  Acceleration = 90
  Braking      = 180
  Appearance   = TREADS
End

Locomotor TestLegs
  Surfaces     = GROUND RUBBLE
  Speed        = 15
  TurnRate     = 360
  Acceleration = 90
  Braking      = 180
  Appearance   = TWO_LEGS
End
`

const testOverrides = `
Locomotor TestLegs
  Speed = 30
End
`

type memRepo struct {
	saved map[uuid.UUID][]db.Snapshot
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{saved: make(map[uuid.UUID][]db.Snapshot)}
}

func (r *memRepo) SaveAll(_ context.Context, snaps []db.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	for _, s := range snaps {
		r.saved[s.SessionID] = append(r.saved[s.SessionID], s)
	}
	return nil
}

func (r *memRepo) LoadSession(_ context.Context, id uuid.UUID) ([]db.Snapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.saved[id], nil
}

func testConfig(t *testing.T) config.Simulation {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "locomotor.ini")
	over := filepath.Join(dir, "override.ini")
	require.NoError(t, os.WriteFile(base, []byte(testLocomotors), 0o600))
	require.NoError(t, os.WriteFile(over, []byte(testOverrides), 0o600))

	cfg := config.DefaultSimulation()
	cfg.Terrain = config.TerrainConfig{Width: 20, Height: 20, CellSize: 10, WaterLevel: -1}
	cfg.Data = config.DataConfig{
		LocomotorFiles: []string{base},
		OverrideFiles:  []string{over},
	}
	cfg.Units = []config.Unit{
		{Name: "tank", Locomotor: "TestTreads", X: 15, Y: 15, GoalX: 150, GoalY: 95},
		{Name: "trooper", Locomotor: "TestLegs", X: 15, Y: 150, GoalX: 90, GoalY: 150, Kind: "infantry"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestSimulation(t *testing.T, cfg config.Simulation, session uuid.UUID) *simulation {
	t.Helper()

	sim, err := newSimulation(cfg, session, nil)
	require.NoError(t, err)
	t.Cleanup(sim.shutdown)
	return sim
}

func TestSimulation_SpawnAndArrive(t *testing.T) {
	sim := newTestSimulation(t, testConfig(t), uuid.New())
	require.NoError(t, sim.spawn())

	assert.Equal(t, 2, sim.mgr.Count())
	assert.Same(t, sim.store, locomotor.TheStore())

	trooper := sim.units[1]
	assert.True(t, trooper.obj.IsKindOf(model.KindInfantry))
	assert.True(t, trooper.ctrl.Locomotor().Template().IsOverride(), "overrides are layered on load")
	assert.InDelta(t, 1.0, trooper.ctrl.Locomotor().Template().MaxSpeed(), 1e-9)

	for range 3000 {
		sim.mgr.Step()
		if sim.units[0].ctrl.State().Arrived && trooper.ctrl.State().Arrived {
			break
		}
	}
	for _, u := range sim.units {
		assert.Equal(t, model.IntentionHoldPosition, u.ctrl.CurrentIntention(), u.cfg.Name)
		assert.LessOrEqual(t, u.obj.Position().Distance2D(u.goal), u.ctrl.Locomotor().CloseEnoughDist(), u.cfg.Name)
	}
}

func TestSimulation_ShutdownResetsStore(t *testing.T) {
	sim, err := newSimulation(testConfig(t), uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.spawn())
	legs := sim.store.FindTemplateByName("TestLegs")
	require.True(t, legs.FinalOverride().IsOverride())

	sim.shutdown()

	assert.Nil(t, locomotor.TheStore())
	assert.Same(t, legs, legs.FinalOverride(), "reset drops overrides")
}

func TestSimulation_SaveAndResume(t *testing.T) {
	cfg := testConfig(t)
	session := uuid.New()
	repo := newMemRepo()

	sim, err := newSimulation(cfg, session, nil)
	require.NoError(t, err)
	require.NoError(t, sim.spawn())
	for range 40 {
		sim.mgr.Step()
	}

	want := make([][]byte, len(sim.units))
	for i, u := range sim.units {
		want[i], err = xfer.Save(u.ctrl.Locomotor())
		require.NoError(t, err)
	}
	wantPos := sim.units[0].obj.Position()
	wantFrame := sim.logic.Frame()

	require.NoError(t, sim.save(context.Background(), repo))
	sim.shutdown()

	saved := repo.saved[session]
	require.Len(t, saved, 2)
	assert.Equal(t, "tank", saved[0].Name)
	assert.Equal(t, "TestTreads", saved[0].Template)
	assert.Equal(t, constants.ObjectIDUnitStart, saved[0].ObjectID)
	assert.Equal(t, constants.ObjectIDUnitStart+1, saved[1].ObjectID)
	assert.Equal(t, wantFrame, saved[0].Frame)

	resumed := newTestSimulation(t, cfg, session)
	require.NoError(t, resumed.resume(context.Background(), repo))

	require.Len(t, resumed.units, 2)
	assert.Equal(t, wantFrame, resumed.logic.Frame())
	assert.Equal(t, wantPos, resumed.units[0].obj.Position())
	for i, u := range resumed.units {
		got, err := xfer.Save(u.ctrl.Locomotor())
		require.NoError(t, err)
		assert.Equal(t, want[i], got, u.cfg.Name)
	}
}

func TestSimulation_ResumeSpawnsUnitsWithoutSnapshot(t *testing.T) {
	cfg := testConfig(t)
	session := uuid.New()
	repo := newMemRepo()
	repo.saved[session] = []db.Snapshot{{
		SessionID: session,
		ObjectID:  constants.ObjectIDUnitStart,
		Template:  "TestTreads",
		Data:      mustSnapshot(t, cfg),
		Frame:     7,
		Position:  model.NewCoord3D(40, 40, 0),
		Goal:      model.NewCoord3D(150, 95, 0),
	}}

	sim := newTestSimulation(t, cfg, session)
	require.NoError(t, sim.resume(context.Background(), repo))

	require.Len(t, sim.units, 2)
	assert.Equal(t, uint32(7), sim.logic.Frame())
	assert.Equal(t, model.NewCoord3D(40, 40, 0), sim.units[0].obj.Position())
	assert.Equal(t, model.NewCoord3D(15, 150, 0), sim.units[1].obj.Position())
}

func TestSimulation_ResumeSkipsSnapshotsOutsideUnitRange(t *testing.T) {
	cfg := testConfig(t)
	session := uuid.New()
	repo := newMemRepo()
	repo.saved[session] = []db.Snapshot{{
		SessionID: session,
		ObjectID:  1,
		Template:  "TestTreads",
		Data:      mustSnapshot(t, cfg),
		Frame:     7,
		Position:  model.NewCoord3D(40, 40, 0),
		Goal:      model.NewCoord3D(150, 95, 0),
	}}

	sim := newTestSimulation(t, cfg, session)
	require.NoError(t, sim.resume(context.Background(), repo))

	require.Len(t, sim.units, 2)
	assert.Equal(t, model.NewCoord3D(15, 15, 0), sim.units[0].obj.Position(), "spawned fresh")
	assert.Equal(t, constants.ObjectIDUnitStart, sim.units[0].obj.ObjectID())
}

func TestSimulation_UnitsScaleWithFrameRate(t *testing.T) {
	for _, fps := range []int{15, 30} {
		cfg := testConfig(t)
		cfg.Simulation.FrameRate = fps

		sim := newTestSimulation(t, cfg, uuid.New())
		rate := float64(fps)

		treads := sim.store.FindTemplateByName("TestTreads")
		require.NotNil(t, treads)
		assert.InDelta(t, 30.0, treads.MaxSpeed()*rate, 1e-9, "%d fps: units/s", fps)
		assert.InDelta(t, 90.0, treads.Acceleration()*rate*rate, 1e-9, "%d fps: units/s²", fps)

		legs := sim.store.FindTemplateByName("TestLegs").FinalOverride()
		assert.InDelta(t, 30.0, legs.MaxSpeed()*rate, 1e-9, "%d fps: override units/s", fps)
		assert.InDelta(t, cfg.Simulation.Gravity, sim.logic.Gravity()*rate*rate, 1e-9, "%d fps: gravity", fps)
	}
}

func TestGroundFriction(t *testing.T) {
	assert.InDelta(t, 0.05, groundFriction(30), 1e-12)
	// one second of decay is the same at every rate
	for _, fps := range []int{15, 60, 200} {
		assert.InDelta(t, math.Pow(0.95, 30), math.Pow(1-groundFriction(fps), float64(fps)), 1e-9, "%d fps", fps)
	}
}

func mustSnapshot(t *testing.T, cfg config.Simulation) []byte {
	t.Helper()

	sim, err := newSimulation(cfg, uuid.New(), nil)
	require.NoError(t, err)
	defer sim.shutdown()

	loco, err := sim.store.NewLocomotorByName("TestTreads")
	require.NoError(t, err)
	data, err := xfer.Save(loco)
	require.NoError(t, err)
	return data
}

func TestSimulation_ResumeErrors(t *testing.T) {
	cfg := testConfig(t)

	sim := newTestSimulation(t, cfg, uuid.New())
	assert.Error(t, sim.resume(context.Background(), newMemRepo()), "empty session")

	repo := newMemRepo()
	repo.err = testutil.ErrSimulated
	assert.ErrorIs(t, sim.resume(context.Background(), repo), testutil.ErrSimulated)
}

func TestSimulation_SaveError(t *testing.T) {
	sim := newTestSimulation(t, testConfig(t), uuid.New())
	require.NoError(t, sim.spawn())

	repo := newMemRepo()
	repo.err = testutil.ErrSimulated
	assert.ErrorIs(t, sim.save(context.Background(), repo), testutil.ErrSimulated)
}

func TestSimulation_LoopStopsAtMaxFrames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.MaxFrames = 3

	sim := newTestSimulation(t, cfg, uuid.New())
	require.NoError(t, sim.spawn())

	ctx := testutil.ContextWithTimeout(t, 5*time.Second)
	require.NoError(t, sim.loop(ctx, config.MetricsConfig{}, prometheus.NewRegistry()))
	assert.Equal(t, uint32(3), sim.mgr.Steps())
	assert.Equal(t, uint32(3), sim.logic.Frame())
}

func TestSimulation_LoopStopsOnCancel(t *testing.T) {
	sim := newTestSimulation(t, testConfig(t), uuid.New())
	require.NoError(t, sim.spawn())

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() {
		done <- sim.loop(ctx, config.MetricsConfig{}, prometheus.NewRegistry())
	}()

	testutil.WaitFor(t, func() bool { return sim.mgr.Steps() > 0 }, 3*time.Second)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestNewSimulation_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.LocomotorFiles = []string{filepath.Join(t.TempDir(), "missing.ini")}
	_, err := newSimulation(cfg, uuid.New(), nil)
	assert.Error(t, err)
	assert.Nil(t, locomotor.TheStore())

	cfg = testConfig(t)
	cfg.Simulation.MovementPenaltyDamageState = "BROKEN"
	_, err = newSimulation(cfg, uuid.New(), nil)
	assert.ErrorIs(t, err, model.ErrUnknownDamageState)
}

func TestSpawn_UnknownLocomotorOrKind(t *testing.T) {
	cfg := testConfig(t)
	cfg.Units = []config.Unit{{Name: "ghost", Locomotor: "Nope"}}
	sim := newTestSimulation(t, cfg, uuid.New())
	assert.Error(t, sim.spawn())

	cfg = testConfig(t)
	cfg.Units = []config.Unit{{Name: "boat", Locomotor: "TestTreads", Kind: "SHIP"}}
	sim = newTestSimulation(t, cfg, uuid.New())
	assert.ErrorIs(t, sim.spawn(), errUnknownKind)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want model.KindOf
	}{
		{"", model.KindVehicle},
		{"vehicle", model.KindVehicle},
		{"INFANTRY", model.KindInfantry},
		{"Aircraft", model.KindAircraft},
		{"PROJECTILE", model.KindProjectile},
	}
	for _, tt := range tests {
		got, err := parseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestShippedDataLoads(t *testing.T) {
	cfg := config.DefaultSimulation()
	cfg.Data = config.DataConfig{
		LocomotorFiles: []string{"../../data/locomotor.ini"},
		OverrideFiles:  []string{"../../data/locomotor_override.ini"},
	}

	sim := newTestSimulation(t, cfg, uuid.New())

	assert.Equal(t, 6, sim.store.Count())
	treads := sim.store.FindTemplateByName("BasicTreads")
	require.NotNil(t, treads)
	assert.InDelta(t, 36.0/30.0, treads.FinalOverride().MaxSpeed(), 1e-9)
	assert.InDelta(t, 1.0, treads.MaxSpeed(), 1e-9)
}

func TestShippedConfigValidates(t *testing.T) {
	cfg, err := config.LoadSimulation("../../config/locosim.yaml")
	require.NoError(t, err)
	assert.Len(t, cfg.Units, 6)
	assert.Equal(t, []string{"data/locomotor.ini"}, cfg.Data.LocomotorFiles)
}
