package geo

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/udisondev/rtsloco/internal/model"
)

// ErrHeightCount is returned when a height grid does not match the map size.
var ErrHeightCount = errors.New("height grid size mismatch")

// Bridge is a walkable deck spanning a world-space rectangle at a fixed height.
type Bridge struct {
	X0, Y0, X1, Y1 float64
	Height         float64
}

func (b Bridge) contains(x, y float64) bool {
	return x >= math.Min(b.X0, b.X1) && x <= math.Max(b.X0, b.X1) &&
		y >= math.Min(b.Y0, b.Y1) && y <= math.Max(b.Y0, b.Y1)
}

// Options configures a generated terrain.
type Options struct {
	Width, Height int     // cells
	CellSize      float64 // world units per cell
	Amplitude     float64 // max ground height
	WaterLevel    float64 // ground below this is submerged
	CliffSlope    float64 // rise/run above which a cell is CLIFF
	NoiseAlpha    float64
	NoiseBeta     float64
	NoiseOctaves  int32
	Bridges       []Bridge
}

// NoWater is a water level no ground is ever below.
var NoWater = math.Inf(-1)

// Engine is the terrain heightfield: ground heights on the cell corners,
// a single water level, per-cell surface classes and bridge decks.
// Read-only after construction except SetCellSurface; safe for concurrent readers.
type Engine struct {
	width, height int
	cellSize      float64
	waterLevel    float64
	cliffSlope    float64

	heights  []float64 // (width+1)*(height+1) corner heights
	surfaces []model.SurfaceMask
	bridges  []Bridge
}

// Generate builds a terrain from 2D Perlin noise.
func Generate(opts Options, seed int64) *Engine {
	opts = withDefaults(opts)
	noise := perlin.NewPerlin(opts.NoiseAlpha, opts.NoiseBeta, opts.NoiseOctaves, seed)

	heights := make([]float64, (opts.Width+1)*(opts.Height+1))
	for j := 0; j <= opts.Height; j++ {
		for i := 0; i <= opts.Width; i++ {
			n := noise.Noise2D(float64(i)*noiseScale, float64(j)*noiseScale)
			// octave sums can overshoot [-1, 1]
			heights[j*(opts.Width+1)+i] = math.Max(0, math.Min(1, (n+1)/2)) * opts.Amplitude
		}
	}

	e := newEngine(opts, heights)
	slog.Info("terrain generated",
		"width", opts.Width,
		"height", opts.Height,
		"cell_size", opts.CellSize,
		"seed", seed,
		"water_cells", e.countSurface(model.SurfaceWater),
		"cliff_cells", e.countSurface(model.SurfaceCliff))
	return e
}

// NewEngineFromHeights builds a terrain from explicit corner heights laid out
// row by row, (Width+1)*(Height+1) values.
func NewEngineFromHeights(opts Options, heights []float64) (*Engine, error) {
	opts = withDefaults(opts)
	want := (opts.Width + 1) * (opts.Height + 1)
	if len(heights) != want {
		return nil, fmt.Errorf("terrain %dx%d wants %d heights, got %d: %w",
			opts.Width, opts.Height, want, len(heights), ErrHeightCount)
	}
	return newEngine(opts, append([]float64(nil), heights...)), nil
}

// NewFlatEngine builds a dry, flat terrain at height z.
func NewFlatEngine(width, height int, cellSize, z float64) *Engine {
	opts := withDefaults(Options{Width: width, Height: height, CellSize: cellSize, WaterLevel: NoWater})
	heights := make([]float64, (opts.Width+1)*(opts.Height+1))
	for i := range heights {
		heights[i] = z
	}
	return newEngine(opts, heights)
}

func withDefaults(opts Options) Options {
	opts.Width = max(opts.Width, 1)
	opts.Height = max(opts.Height, 1)
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.CliffSlope <= 0 {
		opts.CliffSlope = DefaultCliffSlope
	}
	if opts.NoiseOctaves <= 0 {
		opts.NoiseOctaves = 3
	}
	if opts.NoiseAlpha == 0 {
		opts.NoiseAlpha = 2
	}
	if opts.NoiseBeta == 0 {
		opts.NoiseBeta = 2
	}
	return opts
}

func newEngine(opts Options, heights []float64) *Engine {
	e := &Engine{
		width:      opts.Width,
		height:     opts.Height,
		cellSize:   opts.CellSize,
		waterLevel: opts.WaterLevel,
		cliffSlope: opts.CliffSlope,
		heights:    heights,
		surfaces:   make([]model.SurfaceMask, opts.Width*opts.Height),
		bridges:    append([]Bridge(nil), opts.Bridges...),
	}
	for y := range e.height {
		for x := range e.width {
			e.surfaces[y*e.width+x] = e.classify(x, y)
		}
	}
	return e
}

// classify derives the surface class of a cell from its corner heights.
func (e *Engine) classify(x, y int) model.SurfaceMask {
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, h := range [4]float64{e.corner(x, y), e.corner(x+1, y), e.corner(x, y+1), e.corner(x+1, y+1)} {
		lo = math.Min(lo, h)
		hi = math.Max(hi, h)
		sum += h
	}

	switch {
	case sum/4 < e.waterLevel:
		return model.SurfaceWater
	case (hi-lo)/e.cellSize > e.cliffSlope:
		return model.SurfaceCliff
	default:
		return model.SurfaceGround
	}
}

func (e *Engine) corner(i, j int) float64 {
	i = min(max(i, 0), e.width)
	j = min(max(j, 0), e.height)
	return e.heights[j*(e.width+1)+i]
}

func (e *Engine) countSurface(s model.SurfaceMask) int {
	n := 0
	for _, m := range e.surfaces {
		if m == s {
			n++
		}
	}
	return n
}

// Width returns the map width in cells.
func (e *Engine) Width() int { return e.width }

// Height returns the map height in cells.
func (e *Engine) Height() int { return e.height }

// CellSize returns the world size of a cell.
func (e *Engine) CellSize() float64 { return e.cellSize }

// WaterLevel returns the water surface height.
func (e *Engine) WaterLevel() float64 { return e.waterLevel }

// GroundHeight returns the bilinearly interpolated ground height at (x, y).
// Positions off the map use the nearest edge.
func (e *Engine) GroundHeight(x, y float64) float64 {
	fx := math.Max(0, math.Min(x/e.cellSize, float64(e.width)))
	fy := math.Max(0, math.Min(y/e.cellSize, float64(e.height)))
	i := min(int(fx), e.width-1)
	j := min(int(fy), e.height-1)
	tx := fx - float64(i)
	ty := fy - float64(j)

	h00 := e.corner(i, j)
	h10 := e.corner(i+1, j)
	h01 := e.corner(i, j+1)
	h11 := e.corner(i+1, j+1)

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*ty
}

// IsUnderwater reports whether the ground at (x, y) is submerged and
// returns the water and ground heights.
func (e *Engine) IsUnderwater(x, y float64) (bool, float64, float64) {
	ground := e.GroundHeight(x, y)
	return ground < e.waterLevel, e.waterLevel, ground
}

// bridgeAt returns the highest bridge deck covering (x, y).
func (e *Engine) bridgeAt(x, y float64) (float64, bool) {
	best, found := math.Inf(-1), false
	for _, b := range e.bridges {
		if b.contains(x, y) && b.Height > best {
			best, found = b.Height, true
		}
	}
	return best, found
}

// LayerHeight returns the height of layer at (x, y). The bridge layer falls
// back to ground where no deck covers the position.
func (e *Engine) LayerHeight(x, y float64, layer model.Layer) float64 {
	if layer == model.LayerBridge {
		if h, ok := e.bridgeAt(x, y); ok {
			return h
		}
	}
	return e.GroundHeight(x, y)
}

// HighestLayerHeight returns the highest of ground and any bridge deck at (x, y).
func (e *Engine) HighestLayerHeight(x, y float64) float64 {
	ground := e.GroundHeight(x, y)
	if h, ok := e.bridgeAt(x, y); ok && h > ground {
		return h
	}
	return ground
}

// CellSurface returns the surface class at (x, y), zero off the map.
func (e *Engine) CellSurface(x, y float64) model.SurfaceMask {
	return e.surface(e.CellAt(x, y))
}

func (e *Engine) surface(c Cell) model.SurfaceMask {
	if !e.InBounds(c) {
		return 0
	}
	return e.surfaces[c.Y*e.width+c.X]
}

// SetCellSurface overrides the surface class of a cell, e.g. to drop rubble.
func (e *Engine) SetCellSurface(c Cell, s model.SurfaceMask) {
	if !e.InBounds(c) {
		return
	}
	e.surfaces[c.Y*e.width+c.X] = s
}

// ValidMovementTerrain reports whether a locomotor travelling on surfaces may
// stand at pos on layer. AIR movers are valid everywhere.
func (e *Engine) ValidMovementTerrain(layer model.Layer, surfaces model.SurfaceMask, pos model.Coord3D) bool {
	if surfaces.Has(model.SurfaceAir) {
		return true
	}
	if layer == model.LayerBridge {
		if _, ok := e.bridgeAt(pos.X, pos.Y); ok {
			return surfaces.Has(model.SurfaceGround)
		}
	}
	return e.passable(e.CellAt(pos.X, pos.Y), surfaces)
}

func (e *Engine) passable(c Cell, surfaces model.SurfaceMask) bool {
	s := e.surface(c)
	return s != 0 && surfaces.Intersects(s)
}
