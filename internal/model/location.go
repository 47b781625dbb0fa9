package model

import "math"

// Coord3D represents a position or vector in world space.
// Value type, passed by value.
type Coord3D struct {
	X float64
	Y float64
	Z float64
}

// NewCoord3D creates a Coord3D with the given components.
func NewCoord3D(x, y, z float64) Coord3D {
	return Coord3D{X: x, Y: y, Z: z}
}

// Add returns c + o.
func (c Coord3D) Add(o Coord3D) Coord3D {
	return Coord3D{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Sub returns c - o.
func (c Coord3D) Sub(o Coord3D) Coord3D {
	return Coord3D{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Scale returns c multiplied by s.
func (c Coord3D) Scale(s float64) Coord3D {
	return Coord3D{X: c.X * s, Y: c.Y * s, Z: c.Z * s}
}

// Length returns the 3D magnitude.
func (c Coord3D) Length() float64 {
	return math.Sqrt(c.X*c.X + c.Y*c.Y + c.Z*c.Z)
}

// Length2D returns the magnitude of the XY projection.
func (c Coord3D) Length2D() float64 {
	return math.Sqrt(c.X*c.X + c.Y*c.Y)
}

// LengthSquared returns the squared 3D magnitude (no sqrt for hot paths).
func (c Coord3D) LengthSquared() float64 {
	return c.X*c.X + c.Y*c.Y + c.Z*c.Z
}

// Normalize returns the unit vector of c, or the zero vector if c is zero.
func (c Coord3D) Normalize() Coord3D {
	l := c.Length()
	if l == 0 {
		return Coord3D{}
	}
	return c.Scale(1 / l)
}

// IsZero reports whether all components are zero.
func (c Coord3D) IsZero() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

// Distance2D returns the XY distance between two points.
func (c Coord3D) Distance2D(o Coord3D) float64 {
	return c.Sub(o).Length2D()
}

// Distance returns the 3D distance between two points.
func (c Coord3D) Distance(o Coord3D) float64 {
	return c.Sub(o).Length()
}

// WithZ returns a copy of c with Z replaced.
func (c Coord3D) WithZ(z float64) Coord3D {
	c.Z = z
	return c
}

// HeadingTo returns the XY angle in radians from c towards o.
func (c Coord3D) HeadingTo(o Coord3D) float64 {
	return math.Atan2(o.Y-c.Y, o.X-c.X)
}

// NormalizeAngle wraps an angle in radians into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
