package geo

import (
	"container/heap"
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// FindPath finds a path from start to end for a mover on surfaces using A*.
// Returns waypoints ending exactly at end, or nil if no path was found.
// AIR movers fly straight.
func (e *Engine) FindPath(start, end model.Coord3D, surfaces model.SurfaceMask) []model.Coord3D {
	if surfaces.Has(model.SurfaceAir) {
		return []model.Coord3D{end}
	}

	from := e.CellAt(start.X, start.Y)
	to := e.CellAt(end.X, end.Y)
	if !e.passable(to, surfaces) || !e.InBounds(from) {
		return nil
	}

	// Same cell, already there
	if from == to {
		return []model.Coord3D{end}
	}

	result := e.astar(from, to, surfaces)
	if result == nil {
		return nil
	}

	cells := make([]Cell, 0, 32)
	for n := result; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	// Reverse (A* builds path backward)
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	cells = e.smoothPath(cells, surfaces)

	// Drop the start cell, the mover is already in it.
	path := make([]model.Coord3D, 0, len(cells))
	for _, c := range cells[1 : len(cells)-1] {
		x, y := e.CellCenter(c)
		path = append(path, model.NewCoord3D(x, y, e.GroundHeight(x, y)))
	}
	return append(path, end)
}

// smoothPath removes unnecessary intermediate cells from an A* path.
// If cell N can be reached in a straight line from N-2, cell N-1 is removed.
// Runs up to 3 passes to progressively simplify the path.
func (e *Engine) smoothPath(path []Cell, surfaces model.SurfaceMask) []Cell {
	for range 3 {
		if len(path) <= 2 {
			return path
		}

		changed := false
		smoothed := make([]Cell, 0, len(path))
		smoothed = append(smoothed, path[0])

		for i := 1; i < len(path)-1; i++ {
			prev := smoothed[len(smoothed)-1]
			next := path[i+1]

			if e.CanMoveToTarget(prev, next, surfaces) {
				// Skip intermediate point path[i]
				changed = true
				continue
			}
			smoothed = append(smoothed, path[i])
		}
		smoothed = append(smoothed, path[len(path)-1])
		path = smoothed

		if !changed {
			break
		}
	}
	return path
}

// CanMoveToTarget reports whether a mover on surfaces can travel in a
// straight line between the centres of from and to: every cell on the line
// must be passable, diagonal steps must not cut blocked corners and the
// segment keeps PathMargin of clearance on both sides.
func (e *Engine) CanMoveToTarget(from, to Cell, surfaces model.SurfaceMask) bool {
	it := NewLineIterator(from, to)
	prev := from
	for it.Next() {
		c := it.Cell()
		if !e.passable(c, surfaces) {
			return false
		}
		if c.X != prev.X && c.Y != prev.Y {
			if !e.passable(Cell{X: c.X, Y: prev.Y}, surfaces) || !e.passable(Cell{X: prev.X, Y: c.Y}, surfaces) {
				return false
			}
		}
		prev = c
	}
	return e.segmentClear(from, to, surfaces)
}

// segmentClear samples the segment between two cell centres every quarter
// cell, on the centre line and at PathMargin to either side.
func (e *Engine) segmentClear(from, to Cell, surfaces model.SurfaceMask) bool {
	ax, ay := e.CellCenter(from)
	bx, by := e.CellCenter(to)
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		return true
	}

	margin := e.cellSize * PathMargin
	nx, ny := -dy/length*margin, dx/length*margin
	steps := int(math.Ceil(length / (e.cellSize / 4)))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := ax+dx*t, ay+dy*t
		if !e.passable(e.CellAt(x, y), surfaces) ||
			!e.passable(e.CellAt(x+nx, y+ny), surfaces) ||
			!e.passable(e.CellAt(x-nx, y-ny), surfaces) {
			return false
		}
	}
	return true
}

// pathNode represents a node in the A* search graph.
type pathNode struct {
	cell   Cell
	parent *pathNode
	gCost  float64 // Actual cost from start
	hCost  float64 // Heuristic cost to target
	fCost  float64 // gCost + hCost
	index  int     // heap index
}

// astar implements the A* algorithm on terrain cells.
func (e *Engine) astar(from, to Cell, surfaces model.SurfaceMask) *pathNode {
	start := &pathNode{cell: from}
	start.hCost = heuristic(from, to)
	start.fCost = start.hCost

	openList := &nodeHeap{}
	heap.Init(openList)
	heap.Push(openList, start)

	closed := make(map[Cell]struct{}, 256)

	for range MaxPathfindIterations {
		if openList.Len() == 0 {
			return nil
		}

		current := heap.Pop(openList).(*pathNode)
		if current.cell == to {
			return current
		}

		if _, exists := closed[current.cell]; exists {
			continue
		}
		closed[current.cell] = struct{}{}

		e.expandNeighbors(current, to, surfaces, openList, closed)
	}

	return nil // Max iterations exceeded
}

// expandNeighbors adds passable adjacent cells to the open list.
func (e *Engine) expandNeighbors(
	current *pathNode,
	to Cell,
	surfaces model.SurfaceMask,
	openList *nodeHeap,
	closed map[Cell]struct{},
) {
	cardinals := [4]Cell{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

	var open byte
	for _, d := range cardinals {
		c := Cell{X: current.cell.X + d.X, Y: current.cell.Y + d.Y}
		if !e.passable(c, surfaces) {
			continue
		}
		open |= ComputeNSWE(current.cell, c)
		e.pushNode(current, c, to, WeightStraight, openList, closed)
	}

	// Diagonal directions (anti-corner-cut: both adjacent cardinals must be passable)
	diagonals := [4]Cell{{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}}

	for _, d := range diagonals {
		c := Cell{X: current.cell.X + d.X, Y: current.cell.Y + d.Y}
		need := ComputeNSWE(current.cell, c)
		if open&need != need {
			continue
		}
		if !e.passable(c, surfaces) {
			continue
		}
		e.pushNode(current, c, to, WeightDiagonal, openList, closed)
	}
}

func (e *Engine) pushNode(current *pathNode, c, to Cell, weight float64, openList *nodeHeap, closed map[Cell]struct{}) {
	if _, exists := closed[c]; exists {
		return
	}
	if s := e.surface(c); s&(model.SurfaceRubble|model.SurfaceCliff) != 0 {
		weight += WeightRough
	}

	node := &pathNode{
		cell:   c,
		parent: current,
		gCost:  current.gCost + weight,
		hCost:  heuristic(c, to),
	}
	node.fCost = node.gCost + node.hCost
	heap.Push(openList, node)
}

// heuristic is the Euclidean cell distance.
func heuristic(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// nodeHeap implements container/heap for the A* open list (min-heap by fCost).
type nodeHeap []*pathNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)        { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
