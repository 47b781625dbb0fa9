package model

// Intention represents what a unit's movement AI is trying to do.
type Intention int32

const (
	// IntentionIdle - unit has no order
	IntentionIdle Intention = iota
	// IntentionMoveTo - unit is following a path to a goal
	IntentionMoveTo
	// IntentionHoldPosition - unit has arrived and keeps station
	IntentionHoldPosition
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionMoveTo:
		return "MOVE_TO"
	case IntentionHoldPosition:
		return "HOLD_POSITION"
	default:
		return "UNKNOWN"
	}
}
