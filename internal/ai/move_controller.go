package ai

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/udisondev/rtsloco/internal/locomotor"
	"github.com/udisondev/rtsloco/internal/model"
)

// Body is a physics body the controller integrates once per tick.
type Body interface {
	locomotor.PhysicsBody
	Update()
}

// DefaultWaypointRadius is how close an intermediate waypoint must be
// approached before the controller moves on to the next one.
const DefaultWaypointRadius = 5.0

// MoveController walks one unit along a path of waypoints with its locomotor.
//
// Intermediate waypoints are driven through without slowing down; the last
// one is approached with braking and, once close enough, held.
// Not safe for concurrent use: ticked only by the TickManager goroutine.
type MoveController struct {
	obj  locomotor.Object
	body Body
	loco *locomotor.Locomotor

	path           []model.Coord3D
	next           int
	speed          float64
	waypointRadius float64

	intention model.Intention
	blocked   bool
	tilt      locomotor.Tilt

	isRunning atomic.Bool
	tickCount atomic.Int64
}

// NewMoveController creates an idle controller for obj moving at speed.
func NewMoveController(obj locomotor.Object, body Body, loco *locomotor.Locomotor, speed float64) *MoveController {
	return &MoveController{
		obj:            obj,
		body:           body,
		loco:           loco,
		speed:          speed,
		waypointRadius: DefaultWaypointRadius,
	}
}

// objectIDer is implemented by objects that carry an ID.
type objectIDer interface {
	ObjectID() uint32
}

// ObjectID returns the controlled object's ID, 0 when it has none.
func (c *MoveController) ObjectID() uint32 {
	if o, ok := c.obj.(objectIDer); ok {
		return o.ObjectID()
	}
	return 0
}

// Start activates the controller.
func (c *MoveController) Start() {
	c.isRunning.Store(true)
	slog.Debug("move controller started", "objectID", c.ObjectID(), "intention", c.intention)
}

// Stop deactivates the controller.
func (c *MoveController) Stop() {
	c.isRunning.Store(false)
	slog.Debug("move controller stopped", "objectID", c.ObjectID())
}

// SetPath orders the unit along path; an empty path makes it hold where it is.
func (c *MoveController) SetPath(path []model.Coord3D) {
	c.path = append([]model.Coord3D(nil), path...)
	c.next = 0
	c.blocked = false
	if len(c.path) == 0 {
		c.hold()
		return
	}
	c.setIntention(model.IntentionMoveTo)
}

// SetWaypointRadius changes the pass-through radius of intermediate waypoints.
func (c *MoveController) SetWaypointRadius(r float64) { c.waypointRadius = r }

// SetSpeed changes the desired speed.
func (c *MoveController) SetSpeed(speed float64) { c.speed = speed }

func (c *MoveController) Object() locomotor.Object          { return c.obj }
func (c *MoveController) Body() Body                        { return c.body }
func (c *MoveController) Locomotor() *locomotor.Locomotor   { return c.loco }
func (c *MoveController) CurrentIntention() model.Intention { return c.intention }
func (c *MoveController) Tilt() locomotor.Tilt              { return c.tilt }
func (c *MoveController) TickCount() int64                  { return c.tickCount.Load() }

// Waypoint returns the index of the waypoint being driven to.
func (c *MoveController) Waypoint() int { return c.next }

// State returns the controller's tick statistics.
func (c *MoveController) State() State {
	return State{
		Active:  c.isRunning.Load(),
		Arrived: c.intention == model.IntentionHoldPosition,
		Blocked: c.blocked,
		Braking: c.loco.IsBraking(),
	}
}

func (c *MoveController) setIntention(i model.Intention) {
	if c.intention != i {
		traceTick("intention changed", c.ObjectID(), "old", c.intention, "new", i)
	}
	c.intention = i
}

func (c *MoveController) hold() {
	c.loco.MaintainCurrentPosition(c.obj)
	c.setIntention(model.IntentionHoldPosition)
}

// Tick performs one frame: steer, integrate, tilt, then advance waypoints.
func (c *MoveController) Tick() {
	if !c.isRunning.Load() {
		return
	}
	c.tickCount.Add(1)

	switch c.intention {
	case model.IntentionMoveTo:
		c.tickMove()
	case model.IntentionHoldPosition:
		c.loco.UpdateMaintainCurrentPosition(c.obj)
	}

	c.body.Update()
	c.loco.UpdateTilt(&c.tilt, c.body, c.obj.Orientation())

	if c.intention == model.IntentionMoveTo {
		c.advance()
	}
}

func (c *MoveController) tickMove() {
	goal := c.path[c.next]
	pos := c.obj.Position()
	final := c.next == len(c.path)-1

	// Intermediate waypoints report their own distance so the locomotor
	// never sees the path and straight-line distances disagree.
	onPath := pos.Distance2D(goal)
	if final {
		onPath = c.remainingPath(pos)
	}
	c.loco.SetNoSlowDownAsApproachingDest(!final)

	c.blocked = c.loco.MoveTowardsPosition(c.obj, goal, onPath, c.speed, c.blocked)

	traceTick("move tick", c.ObjectID(),
		"waypoint", c.next,
		"on_path", onPath,
		"blocked", c.blocked,
		"braking", c.loco.IsBraking())
}

// remainingPath is the distance from pos through the remaining waypoints.
func (c *MoveController) remainingPath(pos model.Coord3D) float64 {
	dist := pos.Distance2D(c.path[c.next])
	for i := c.next + 1; i < len(c.path); i++ {
		dist += c.path[i-1].Distance2D(c.path[i])
	}
	return dist
}

func (c *MoveController) advance() {
	pos := c.obj.Position()
	for c.next < len(c.path)-1 {
		r := math.Max(c.waypointRadius, c.loco.CloseEnoughDist())
		if pos.Distance2D(c.path[c.next]) > r {
			return
		}
		c.next++
	}

	if c.loco.IsCloseEnough(pos, c.path[c.next]) {
		slog.Debug("unit arrived", "objectID", c.ObjectID(), "x", pos.X, "y", pos.Y)
		c.hold()
	}
}
