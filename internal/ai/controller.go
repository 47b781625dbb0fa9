package ai

import "github.com/udisondev/rtsloco/internal/model"

// Controller is a per-unit movement AI driven by the TickManager.
type Controller interface {
	// Start activates the controller.
	Start()

	// Stop deactivates the controller; ticks become no-ops.
	Stop()

	// ObjectID returns the ID of the controlled object.
	ObjectID() uint32

	// CurrentIntention returns what the controller is trying to do.
	CurrentIntention() model.Intention

	// State returns the per-tick counters the manager aggregates.
	State() State

	// Tick performs one logic frame.
	Tick()
}

// State is a controller's view for tick statistics.
type State struct {
	Active  bool
	Arrived bool
	Blocked bool
	Braking bool
}
