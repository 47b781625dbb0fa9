package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/udisondev/rtsloco/internal/ai"
	"github.com/udisondev/rtsloco/internal/config"
	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/db"
	"github.com/udisondev/rtsloco/internal/game/geo"
	"github.com/udisondev/rtsloco/internal/gamelogic"
	"github.com/udisondev/rtsloco/internal/ini"
	"github.com/udisondev/rtsloco/internal/locomotor"
	"github.com/udisondev/rtsloco/internal/model"
	"github.com/udisondev/rtsloco/internal/namekey"
	"github.com/udisondev/rtsloco/internal/physics"
	"github.com/udisondev/rtsloco/internal/xfer"
)

// errUnknownKind is returned for a unit kind outside kindNames.
var errUnknownKind = errors.New("unknown unit kind")

var kindNames = map[string]model.KindOf{
	"":           model.KindVehicle,
	"VEHICLE":    model.KindVehicle,
	"INFANTRY":   model.KindInfantry,
	"AIRCRAFT":   model.KindAircraft,
	"PROJECTILE": model.KindProjectile,
}

func parseKind(s string) (model.KindOf, error) {
	k, ok := kindNames[strings.ToUpper(s)]
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, errUnknownKind)
	}
	return k, nil
}

// snapshotStore is the persistence the simulation saves to and resumes from.
type snapshotStore interface {
	SaveAll(ctx context.Context, snaps []db.Snapshot) error
	LoadSession(ctx context.Context, sessionID uuid.UUID) ([]db.Snapshot, error)
}

type unit struct {
	cfg  config.Unit
	obj  *model.GameObject
	body *physics.Body
	ctrl *ai.MoveController
	goal model.Coord3D
}

// simulation is one headless run: terrain, locomotor templates, units and their tick manager.
type simulation struct {
	cfg     config.Simulation
	session uuid.UUID

	logic   *gamelogic.Logic
	terrain *geo.Engine
	store   *locomotor.Store
	mgr     *ai.TickManager
	units   []*unit
}

// newSimulation builds the world and loads locomotor data. Units are spawned separately.
func newSimulation(cfg config.Simulation, session uuid.UUID, observer ai.Observer) (*simulation, error) {
	penalty, err := model.ParseDamageState(cfg.Simulation.MovementPenaltyDamageState)
	if err != nil {
		return nil, fmt.Errorf("movement penalty: %w", err)
	}

	logic := gamelogic.New(gamelogic.Options{
		FrameRate:                  cfg.Simulation.FrameRate,
		Gravity:                    cfg.Simulation.Gravity,
		MovementPenaltyDamageState: penalty,
		Seed:                       cfg.Simulation.Seed,
	})

	terrain := geo.Generate(terrainOptions(cfg.Terrain), int64(cfg.Simulation.Seed))

	store := locomotor.InitStore(namekey.NewGenerator(), locomotor.Services{
		Terrain:    terrain,
		Pathfinder: terrain,
		Globals:    logic,
		Clock:      logic,
		Random:     logic,
	})

	loader := ini.NewLoader()
	loader.SetFrameRate(logic.FrameRate())
	locomotor.Register(loader)
	for _, path := range cfg.Data.LocomotorFiles {
		if err := loader.LoadFile(path, ini.LoadOverwrite); err != nil {
			locomotor.ShutdownStore()
			return nil, fmt.Errorf("loading locomotors: %w", err)
		}
	}
	for _, path := range cfg.Data.OverrideFiles {
		if err := loader.LoadFile(path, ini.LoadCreateOverrides); err != nil {
			locomotor.ShutdownStore()
			return nil, fmt.Errorf("loading locomotor overrides: %w", err)
		}
	}
	slog.Info("locomotor templates loaded", "count", store.Count(), "names", store.Names())

	return &simulation{
		cfg:     cfg,
		session: session,
		logic:   logic,
		terrain: terrain,
		store:   store,
		mgr: ai.NewTickManager(logic, ai.ManagerOptions{
			FrameRate: cfg.Simulation.FrameRate,
			MaxFrames: cfg.Simulation.MaxFrames,
			Observer:  observer,
		}),
	}, nil
}

func terrainOptions(t config.TerrainConfig) geo.Options {
	bridges := make([]geo.Bridge, 0, len(t.Bridges))
	for _, b := range t.Bridges {
		bridges = append(bridges, geo.Bridge{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1, Height: b.Height})
	}
	return geo.Options{
		Width:        t.Width,
		Height:       t.Height,
		CellSize:     t.CellSize,
		Amplitude:    t.Amplitude,
		WaterLevel:   t.WaterLevel,
		CliffSlope:   t.CliffSlope,
		NoiseAlpha:   t.NoiseAlpha,
		NoiseBeta:    t.NoiseBeta,
		NoiseOctaves: t.NoiseOctaves,
		Bridges:      bridges,
	}
}

// spawn places every configured unit and orders it to its goal.
// Object IDs are allocated from the unit range in configuration order.
func (s *simulation) spawn() error {
	for i, uc := range s.cfg.Units {
		pos := s.onGround(uc.X, uc.Y)
		goal := s.onGround(uc.GoalX, uc.GoalY)

		u, err := s.newUnit(unitObjectID(i), uc, pos, 0, goal)
		if err != nil {
			return err
		}
		loco, err := s.store.NewLocomotorByName(uc.Locomotor)
		if err != nil {
			return fmt.Errorf("unit %s: %w", uc.Name, err)
		}
		s.attach(u, loco)
	}
	slog.Info("units spawned", "count", len(s.units), "session", s.session)
	return nil
}

// resume recreates units from a saved session. Configured units without a snapshot spawn fresh.
func (s *simulation) resume(ctx context.Context, repo snapshotStore) error {
	snaps, err := repo.LoadSession(ctx, s.session)
	if err != nil {
		return fmt.Errorf("resuming session %s: %w", s.session, err)
	}
	if len(snaps) == 0 {
		return fmt.Errorf("resuming session %s: no snapshots", s.session)
	}

	byID := make(map[uint32]db.Snapshot, len(snaps))
	var frame uint32
	for _, snap := range snaps {
		if !constants.IsUnitObjectID(snap.ObjectID) {
			slog.Warn("snapshot outside the unit ID range, skipping",
				"session", s.session,
				"object_id", snap.ObjectID,
				"unit", snap.Name)
			continue
		}
		byID[snap.ObjectID] = snap
		frame = max(frame, snap.Frame)
	}
	s.logic.SetFrame(frame)

	for i, uc := range s.cfg.Units {
		id := unitObjectID(i)
		snap, ok := byID[id]
		if !ok {
			u, err := s.newUnit(id, uc, s.onGround(uc.X, uc.Y), 0, s.onGround(uc.GoalX, uc.GoalY))
			if err != nil {
				return err
			}
			loco, err := s.store.NewLocomotorByName(uc.Locomotor)
			if err != nil {
				return fmt.Errorf("unit %s: %w", uc.Name, err)
			}
			s.attach(u, loco)
			continue
		}

		u, err := s.newUnit(id, uc, snap.Position, snap.Orientation, s.onGround(snap.Goal.X, snap.Goal.Y))
		if err != nil {
			return err
		}
		loco, err := s.store.NewLocomotorByName(snap.Template)
		if err != nil {
			return fmt.Errorf("unit %s: %w", uc.Name, err)
		}
		if err := xfer.Load(loco, snap.Data); err != nil {
			return fmt.Errorf("unit %s snapshot: %w", uc.Name, err)
		}
		s.attach(u, loco)
	}

	slog.Info("session resumed", "session", s.session, "units", len(s.units), "frame", frame)
	return nil
}

func unitObjectID(i int) uint32 {
	return constants.ObjectIDUnitStart + uint32(i)
}

func (s *simulation) onGround(x, y float64) model.Coord3D {
	return model.NewCoord3D(x, y, s.terrain.GroundHeight(x, y))
}

func (s *simulation) newUnit(id uint32, uc config.Unit, pos model.Coord3D, orientation float64, goal model.Coord3D) (*unit, error) {
	kind, err := parseKind(uc.Kind)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", uc.Name, err)
	}

	obj := model.NewGameObject(id, uc.Name, pos, kind)
	obj.SetOrientation(orientation)
	body := physics.NewBody(obj, physics.Options{
		Mass:     1,
		Gravity:  s.logic.Gravity(),
		Friction: groundFriction(s.logic.FrameRate()),
		Ground:   s.terrain,
	})
	obj.SetPhysics(body)

	return &unit{cfg: uc, obj: obj, body: body, goal: goal}, nil
}

// groundFriction is the per-frame XY friction matching 5% per frame at the default rate.
func groundFriction(frameRate int) float64 {
	return 1 - math.Pow(0.95, float64(constants.LogicFramesPerSecond)/float64(frameRate))
}

// attach binds the locomotor, plans the path and registers the controller.
func (s *simulation) attach(u *unit, loco *locomotor.Locomotor) {
	speed := u.cfg.Speed / float64(s.logic.FrameRate())
	if speed <= 0 {
		speed = loco.MaxSpeedForCondition(u.obj.DamageState())
	}

	u.ctrl = ai.NewMoveController(u.obj, u.body, loco, speed)
	u.ctrl.SetWaypointRadius(s.terrain.CellSize() / 2)

	path := s.terrain.FindPath(u.obj.Position(), u.goal, loco.Template().Surfaces())
	if path == nil {
		slog.Warn("no path to goal, holding position",
			"unit", u.cfg.Name,
			"x", u.goal.X,
			"y", u.goal.Y)
	}
	u.ctrl.SetPath(path)
	u.ctrl.Start()

	s.mgr.Register(u.ctrl)
	s.units = append(s.units, u)
}

// snapshots captures every unit's locomotor and placement.
func (s *simulation) snapshots() ([]db.Snapshot, error) {
	frame := s.logic.Frame()
	snaps := make([]db.Snapshot, 0, len(s.units))
	for _, u := range s.units {
		loco := u.ctrl.Locomotor()
		data, err := xfer.Save(loco)
		if err != nil {
			return nil, fmt.Errorf("snapshot of %s: %w", u.cfg.Name, err)
		}
		snaps = append(snaps, db.Snapshot{
			SessionID:   s.session,
			ObjectID:    u.obj.ObjectID(),
			Name:        u.cfg.Name,
			Template:    loco.Template().Name(),
			Data:        data,
			Frame:       frame,
			Position:    u.obj.Position(),
			Orientation: u.obj.Orientation(),
			Goal:        u.goal,
		})
	}
	return snaps, nil
}

// save persists every unit's snapshot.
func (s *simulation) save(ctx context.Context, repo snapshotStore) error {
	snaps, err := s.snapshots()
	if err != nil {
		return err
	}
	if err := repo.SaveAll(ctx, snaps); err != nil {
		return fmt.Errorf("saving session %s: %w", s.session, err)
	}
	return nil
}

// shutdown drops override templates and releases the process-wide store.
func (s *simulation) shutdown() {
	s.mgr.Stop()
	s.store.Reset()
	locomotor.ShutdownStore()
}
