package constants

// Logic frame timing.
//
// All per-tick quantities (velocities, accelerations, turn rates) are stored in
// per-frame units. Data files express them per second; the loader converts at
// the configured frame rate.

// LogicFramesPerSecond is the default simulation rate.
const LogicFramesPerSecond = 30

// Uncapped is the sentinel used for per-instance locomotor caps that do not
// restrict the template value.
const Uncapped = 99999.0

// Object ID ranges for simulated units.
const (
	// ObjectIDUnitStart is the first ID handed out to spawned units.
	ObjectIDUnitStart uint32 = 0x10000000

	// ObjectIDUnitEnd is the last ID in the unit range.
	ObjectIDUnitEnd uint32 = 0x1FFFFFFF
)

// IsUnitObjectID returns true if objectID is in the unit range.
func IsUnitObjectID(objectID uint32) bool {
	return objectID >= ObjectIDUnitStart && objectID <= ObjectIDUnitEnd
}
