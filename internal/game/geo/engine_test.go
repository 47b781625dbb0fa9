package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rtsloco/internal/model"
)

func TestEngineFlat(t *testing.T) {
	e := NewFlatEngine(4, 4, 10, 7)

	assert.Equal(t, 4, e.Width())
	assert.Equal(t, 4, e.Height())
	assert.Equal(t, 10.0, e.CellSize())
	assert.Equal(t, 7.0, e.GroundHeight(12, 33))

	underwater, _, ground := e.IsUnderwater(12, 33)
	assert.False(t, underwater)
	assert.Equal(t, 7.0, ground)

	assert.Equal(t, model.SurfaceGround, e.CellSurface(5, 5))
	assert.Zero(t, e.CellSurface(-1, 5), "off the map")
}

func TestEngineBilinearHeight(t *testing.T) {
	// 2x1 cells, height rises along X
	e, err := NewEngineFromHeights(Options{Width: 2, Height: 1, CellSize: 10, WaterLevel: NoWater, CliffSlope: 10},
		[]float64{0, 10, 20, 0, 10, 20})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, e.GroundHeight(5, 5), 1e-9)
	assert.InDelta(t, 15.0, e.GroundHeight(15, 0), 1e-9)
	assert.InDelta(t, 20.0, e.GroundHeight(100, 5), 1e-9, "clamped to the map edge")
	assert.InDelta(t, 0.0, e.GroundHeight(-50, 5), 1e-9)
}

func TestEngineHeightCountMismatch(t *testing.T) {
	_, err := NewEngineFromHeights(Options{Width: 2, Height: 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrHeightCount)
}

func TestEngineWater(t *testing.T) {
	e, err := NewEngineFromHeights(Options{Width: 1, Height: 1, CellSize: 10, WaterLevel: 5},
		[]float64{0, 0, 0, 0})
	require.NoError(t, err)

	underwater, water, ground := e.IsUnderwater(5, 5)
	assert.True(t, underwater)
	assert.Equal(t, 5.0, water)
	assert.Equal(t, 0.0, ground)
	assert.Equal(t, 5.0, e.WaterLevel())

	assert.Equal(t, model.SurfaceWater, e.CellSurface(5, 5))
	pos := model.NewCoord3D(5, 5, 0)
	assert.True(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceWater, pos))
	assert.False(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround, pos))
	assert.True(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround|model.SurfaceWater, pos))
}

func TestEngineCliff(t *testing.T) {
	e, err := NewEngineFromHeights(Options{Width: 1, Height: 1, CellSize: 10, WaterLevel: NoWater},
		[]float64{0, 50, 0, 50})
	require.NoError(t, err)

	assert.Equal(t, model.SurfaceCliff, e.CellSurface(5, 5))
	assert.False(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround, model.NewCoord3D(5, 5, 25)))
	assert.True(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround|model.SurfaceCliff, model.NewCoord3D(5, 5, 25)))
}

func TestEngineBridge(t *testing.T) {
	heights := make([]float64, 5*5)
	e, err := NewEngineFromHeights(Options{
		Width: 4, Height: 4, CellSize: 10, WaterLevel: 5,
		Bridges: []Bridge{{X0: 10, Y0: 10, X1: 30, Y1: 20, Height: 8}},
	}, heights)
	require.NoError(t, err)

	assert.Equal(t, 8.0, e.LayerHeight(15, 15, model.LayerBridge))
	assert.Equal(t, 0.0, e.LayerHeight(15, 15, model.LayerGround))
	assert.Equal(t, 0.0, e.LayerHeight(35, 35, model.LayerBridge), "no deck falls back to ground")
	assert.Equal(t, 8.0, e.HighestLayerHeight(15, 15))
	assert.Equal(t, 0.0, e.HighestLayerHeight(35, 35))

	deck := model.NewCoord3D(15, 15, 8)
	assert.True(t, e.ValidMovementTerrain(model.LayerBridge, model.SurfaceGround, deck))
	assert.False(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround, deck), "water below the deck")
}

func TestEngineAirAlwaysValid(t *testing.T) {
	e := NewFlatEngine(2, 2, 10, 0)
	assert.True(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceAir, model.NewCoord3D(-100, -100, 50)))
	assert.False(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround, model.NewCoord3D(-100, -100, 0)))
}

func TestEngineSetCellSurface(t *testing.T) {
	e := NewFlatEngine(3, 3, 10, 0)
	e.SetCellSurface(Cell{X: 1, Y: 1}, model.SurfaceRubble)
	e.SetCellSurface(Cell{X: 10, Y: 10}, model.SurfaceRubble) // ignored

	pos := model.NewCoord3D(15, 15, 0)
	assert.False(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround, pos))
	assert.True(t, e.ValidMovementTerrain(model.LayerGround, model.SurfaceGround|model.SurfaceRubble, pos))
}

func TestGenerateDeterministic(t *testing.T) {
	opts := Options{Width: 16, Height: 12, CellSize: 10, Amplitude: 60, WaterLevel: 5}
	a := Generate(opts, 42)
	b := Generate(opts, 42)

	assert.Equal(t, a.heights, b.heights)
	assert.Equal(t, a.surfaces, b.surfaces)
	assert.Len(t, a.heights, 17*13)
	for _, h := range a.heights {
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 60.0)
	}
}

func TestGenerateDefaults(t *testing.T) {
	e := Generate(Options{}, 1)
	assert.Equal(t, 1, e.Width())
	assert.Equal(t, DefaultCellSize, e.CellSize())
}

func TestCellConversions(t *testing.T) {
	e := NewFlatEngine(4, 4, 10, 0)

	assert.Equal(t, Cell{X: 1, Y: 3}, e.CellAt(19.9, 30))
	assert.Equal(t, Cell{X: -1, Y: 0}, e.CellAt(-0.5, 0))

	x, y := e.CellCenter(Cell{X: 2, Y: 0})
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 5.0, y)

	assert.True(t, e.InBounds(Cell{X: 3, Y: 3}))
	assert.False(t, e.InBounds(Cell{X: 4, Y: 0}))
}

func TestComputeNSWE(t *testing.T) {
	o := Cell{}
	assert.Equal(t, NSWEEast, ComputeNSWE(o, Cell{X: 1}))
	assert.Equal(t, NSWENorth|NSWEWest, ComputeNSWE(o, Cell{X: -1, Y: -1}))
	assert.Equal(t, byte(0), ComputeNSWE(o, o))
}
