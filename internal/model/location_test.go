package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoord3D_Length(t *testing.T) {
	c := NewCoord3D(3, 4, 12)

	assert.InDelta(t, 13.0, c.Length(), 1e-9)
	assert.InDelta(t, 5.0, c.Length2D(), 1e-9)
	assert.InDelta(t, 169.0, c.LengthSquared(), 1e-9)
}

func TestCoord3D_Normalize(t *testing.T) {
	n := NewCoord3D(0, 10, 0).Normalize()
	assert.Equal(t, NewCoord3D(0, 1, 0), n)

	assert.True(t, Coord3D{}.Normalize().IsZero(), "zero vector stays zero")
}

func TestCoord3D_Arithmetic(t *testing.T) {
	a := NewCoord3D(1, 2, 3)
	b := NewCoord3D(4, 5, 6)

	assert.Equal(t, NewCoord3D(5, 7, 9), a.Add(b))
	assert.Equal(t, NewCoord3D(-3, -3, -3), a.Sub(b))
	assert.Equal(t, NewCoord3D(2, 4, 6), a.Scale(2))
	assert.Equal(t, NewCoord3D(1, 2, 42), a.WithZ(42))
}

func TestCoord3D_Distance(t *testing.T) {
	a := NewCoord3D(0, 0, 0)
	b := NewCoord3D(3, 4, 100)

	assert.InDelta(t, 5.0, a.Distance2D(b), 1e-9)
	assert.Greater(t, a.Distance(b), 100.0)
}

func TestCoord3D_HeadingTo(t *testing.T) {
	origin := Coord3D{}

	assert.InDelta(t, 0.0, origin.HeadingTo(NewCoord3D(1, 0, 0)), 1e-9)
	assert.InDelta(t, math.Pi/2, origin.HeadingTo(NewCoord3D(0, 1, 0)), 1e-9)
	assert.InDelta(t, math.Pi, origin.HeadingTo(NewCoord3D(-1, 0, 0)), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9, "NormalizeAngle(%v)", tt.in)
	}
}
