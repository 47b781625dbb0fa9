package geo

import "math"

// Cell is a heightfield cell index.
type Cell struct {
	X, Y int
}

// CellAt converts a world position to its cell. Positions left of or below
// the map yield negative indices.
func (e *Engine) CellAt(x, y float64) Cell {
	return Cell{
		X: int(math.Floor(x / e.cellSize)),
		Y: int(math.Floor(y / e.cellSize)),
	}
}

// CellCenter returns the world XY of a cell's centre.
func (e *Engine) CellCenter(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * e.cellSize, (float64(c.Y) + 0.5) * e.cellSize
}

// InBounds reports whether c is inside the map.
func (e *Engine) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < e.width && c.Y < e.height
}

// ComputeNSWE computes the NSWE direction from one cell to another.
func ComputeNSWE(from, to Cell) byte {
	var nswe byte
	if to.X > from.X {
		nswe |= NSWEEast
	} else if to.X < from.X {
		nswe |= NSWEWest
	}
	if to.Y > from.Y {
		nswe |= NSWESouth
	} else if to.Y < from.Y {
		nswe |= NSWENorth
	}
	return nswe
}
