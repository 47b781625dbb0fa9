package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalid is returned for configuration values the simulation cannot run with.
var ErrInvalid = errors.New("invalid config")

// SimulationParams holds the logic clock and world physics.
type SimulationParams struct {
	FrameRate                  int     `yaml:"frame_rate"`
	Gravity                    float64 `yaml:"gravity"` // units/s²
	MovementPenaltyDamageState string  `yaml:"movement_penalty_damage_state"`
	Seed                       uint64  `yaml:"seed"`
	MaxFrames                  uint32  `yaml:"max_frames"` // 0 runs until signalled
}

// Bridge is a rectangular deck above the terrain, in world units.
type Bridge struct {
	X0     float64 `yaml:"x0"`
	Y0     float64 `yaml:"y0"`
	X1     float64 `yaml:"x1"`
	Y1     float64 `yaml:"y1"`
	Height float64 `yaml:"height"`
}

// TerrainConfig drives procedural terrain generation.
type TerrainConfig struct {
	Width        int      `yaml:"width"`  // cells
	Height       int      `yaml:"height"` // cells
	CellSize     float64  `yaml:"cell_size"`
	Amplitude    float64  `yaml:"amplitude"`
	WaterLevel   float64  `yaml:"water_level"`
	CliffSlope   float64  `yaml:"cliff_slope"`
	NoiseAlpha   float64  `yaml:"noise_alpha"`
	NoiseBeta    float64  `yaml:"noise_beta"`
	NoiseOctaves int32    `yaml:"noise_octaves"`
	Bridges      []Bridge `yaml:"bridges"`
}

// DataConfig lists the locomotor definition files.
type DataConfig struct {
	LocomotorFiles []string `yaml:"locomotor_files"`
	OverrideFiles  []string `yaml:"override_files"` // loaded in create-overrides mode
}

// Unit places one unit and orders it to a goal.
type Unit struct {
	Name      string  `yaml:"name"`
	Locomotor string  `yaml:"locomotor"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	GoalX     float64 `yaml:"goal_x"`
	GoalY     float64 `yaml:"goal_y"`
	Speed     float64 `yaml:"speed"` // units/s, 0 uses the locomotor's max speed
	Kind      string  `yaml:"kind"`  // VEHICLE, INFANTRY, AIRCRAFT, PROJECTILE
}

// Simulation holds all configuration for the simulation runner.
type Simulation struct {
	LogLevel   string           `yaml:"log_level"`
	Simulation SimulationParams `yaml:"simulation"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Data       DataConfig       `yaml:"data"`
	Units      []Unit           `yaml:"units"`
	Database   DatabaseConfig   `yaml:"database"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel: "info",
		Simulation: SimulationParams{
			FrameRate:                  30,
			Gravity:                    -100,
			MovementPenaltyDamageState: "REALLYDAMAGED",
			Seed:                       1,
		},
		Terrain: TerrainConfig{
			Width:        64,
			Height:       64,
			CellSize:     10,
			Amplitude:    60,
			WaterLevel:   5,
			CliffSlope:   1.5,
			NoiseAlpha:   2,
			NoiseBeta:    2,
			NoiseOctaves: 3,
		},
		Data: DataConfig{
			LocomotorFiles: []string{"data/locomotor.ini"},
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "locosim",
			Password: "locosim",
			DBName:   "locosim",
			SSLMode:  "disable",
		},
		Metrics: MetricsConfig{
			Address: ":2112",
		},
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (s Simulation) Validate() error {
	if s.Simulation.FrameRate <= 0 {
		return fmt.Errorf("frame_rate %d: %w", s.Simulation.FrameRate, ErrInvalid)
	}
	if s.Terrain.Width <= 0 || s.Terrain.Height <= 0 || s.Terrain.CellSize <= 0 {
		return fmt.Errorf("terrain %dx%d cell %g: %w", s.Terrain.Width, s.Terrain.Height, s.Terrain.CellSize, ErrInvalid)
	}
	for i, u := range s.Units {
		if u.Locomotor == "" {
			return fmt.Errorf("unit %d (%s) has no locomotor: %w", i, u.Name, ErrInvalid)
		}
	}
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, ErrInvalid)
	}
}
