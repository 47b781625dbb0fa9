package geo

// LineIterator implements the Bresenham line algorithm over cells.
// Steps through every cell along the line from start to end, both included.
type LineIterator struct {
	currentX, currentY int
	targetX, targetY   int
	deltaX, deltaY     int
	stepX, stepY       int
	err                int
	xDominant          bool
	started            bool
}

// NewLineIterator creates a cell line iterator.
func NewLineIterator(from, to Cell) *LineIterator {
	it := &LineIterator{
		currentX: from.X, currentY: from.Y,
		targetX: to.X, targetY: to.Y,
		deltaX: abs(to.X - from.X),
		deltaY: abs(to.Y - from.Y),
		stepX:  1,
		stepY:  1,
	}
	if to.X < from.X {
		it.stepX = -1
	}
	if to.Y < from.Y {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaY / 2
	}
	return it
}

// Next advances the iterator to the next cell.
// Returns false when the target has been passed.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // start cell
	}

	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.err += it.deltaY
		if it.err >= it.deltaX {
			it.currentY += it.stepY
			it.err -= it.deltaX
		}
	} else {
		it.currentY += it.stepY
		it.err += it.deltaX
		if it.err >= it.deltaY {
			it.currentX += it.stepX
			it.err -= it.deltaY
		}
	}
	return true
}

// Cell returns the current cell.
func (it *LineIterator) Cell() Cell { return Cell{X: it.currentX, Y: it.currentY} }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
